package domain

import (
	"fmt"
	"strings"
)

type Currency string

const (
	CurrencyRUB  Currency = "RUB"
	CurrencyTHB  Currency = "THB"
	CurrencyUSDT Currency = "USDT"
)

var SupportedCurrencies = []Currency{CurrencyRUB, CurrencyTHB, CurrencyUSDT}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) IsValid() bool {
	for _, supported := range SupportedCurrencies {
		if c == supported {
			return true
		}
	}
	return false
}

// ParseCurrency is case-insensitive, the admin panel sends lowercase codes in paths.
func ParseCurrency(raw string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: unsupported currency %q", ErrValidation, raw)
	}
	return c, nil
}

// CurrencyPair is directional: THB_RUB and RUB_THB are different pairs.
type CurrencyPair struct {
	From Currency
	To   Currency
}

var (
	PairTHBUSDT = CurrencyPair{From: CurrencyTHB, To: CurrencyUSDT}
	PairUSDTRUB = CurrencyPair{From: CurrencyUSDT, To: CurrencyRUB}
	PairTHBRUB  = CurrencyPair{From: CurrencyTHB, To: CurrencyRUB}
)

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// ParseCurrencyPair accepts "FROM_TO" in any case.
func ParseCurrencyPair(raw string) (CurrencyPair, error) {
	parts := strings.Split(strings.TrimSpace(raw), "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return CurrencyPair{}, fmt.Errorf("%w: currency_pair must look like FROM_TO, got %q", ErrValidation, raw)
	}
	return CurrencyPair{
		From: Currency(strings.ToUpper(parts[0])),
		To:   Currency(strings.ToUpper(parts[1])),
	}, nil
}
