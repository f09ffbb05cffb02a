package middleware

import (
	"context"
	"net/http"

	"github.com/jaevor/go-nanoid"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
)

const ContextRequestID contextKey = "requestID"

// RequestID takes the id from X-Request-ID or generates one, and echoes it
// in the response.
func RequestID() (func(http.Handler) http.Handler, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = idGenerator()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), ContextRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}, nil
}

func GetRequestID(ctx context.Context) string {
	val, _ := ctx.Value(ContextRequestID).(string)
	return val
}
