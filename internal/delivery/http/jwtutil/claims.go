package jwtutil

import "github.com/golang-jwt/jwt/v5"

// Claims issued by the admin panel login.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
