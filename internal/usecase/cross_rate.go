package usecase

import (
	"fmt"
	"math"

	"github.com/LavaJover/panterex-service/internal/domain"
)

// CrossRate triangulates through the common quote asset:
// thb_rub = thb_usdt / usdt_rub. Both legs must be finite and strictly positive.
func CrossRate(base, quote float64) (float64, error) {
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
		return 0, fmt.Errorf("%w: base rate must be positive, got %v", domain.ErrArithmetic, base)
	}
	if math.IsNaN(quote) || math.IsInf(quote, 0) || quote <= 0 {
		return 0, fmt.Errorf("%w: cannot divide by rate %v", domain.ErrArithmetic, quote)
	}

	cross := base / quote
	if math.IsInf(cross, 0) || cross == 0 {
		return 0, fmt.Errorf("%w: cross rate %v/%v is out of range", domain.ErrArithmetic, base, quote)
	}
	return cross, nil
}
