package memory

import "github.com/LavaJover/panterex-service/internal/domain"

// DefaultTiers mirrors the tiers seeded by the commissions migration.
func DefaultTiers() []*domain.CommissionTier {
	tier := func(currency domain.Currency, minAmount float64, maxAmount *float64, percent float64) *domain.CommissionTier {
		return &domain.CommissionTier{Currency: currency, MinAmount: minAmount, MaxAmount: maxAmount, CommissionPercent: percent}
	}
	bound := func(v float64) *float64 { return &v }

	return []*domain.CommissionTier{
		tier(domain.CurrencyRUB, 0, bound(5000), 9.0),
		tier(domain.CurrencyRUB, 5000, bound(10000), 7.0),
		tier(domain.CurrencyRUB, 10000, bound(30000), 5.0),
		tier(domain.CurrencyRUB, 30000, bound(100000), 3.5),
		tier(domain.CurrencyRUB, 100000, nil, 2.5),

		tier(domain.CurrencyTHB, 0, bound(5000), 8.0),
		tier(domain.CurrencyTHB, 5000, bound(10000), 6.0),
		tier(domain.CurrencyTHB, 10000, bound(30000), 4.0),
		tier(domain.CurrencyTHB, 30000, bound(100000), 3.0),
		tier(domain.CurrencyTHB, 100000, nil, 2.0),

		tier(domain.CurrencyUSDT, 0, bound(100), 5.0),
		tier(domain.CurrencyUSDT, 100, bound(500), 3.0),
		tier(domain.CurrencyUSDT, 500, bound(1000), 2.0),
		tier(domain.CurrencyUSDT, 1000, bound(5000), 1.5),
		tier(domain.CurrencyUSDT, 5000, nil, 1.0),
	}
}

// DefaultSettings mirrors the config rows seeded by migration.
func DefaultSettings() []*domain.Setting {
	return []*domain.Setting{
		{Key: "MIN_THB_LIMIT", Value: "3200", Description: "Минимальная сумма обмена в THB"},
		{Key: "MIN_RUB_LIMIT", Value: "10000", Description: "Минимальная сумма обмена в RUB"},
		{Key: "MIN_USDT_LIMIT", Value: "100", Description: "Минимальная сумма обмена в USDT"},
		{Key: "THB_ORDER_AMOUNT", Value: "10000", Description: "Стандартная сумма ордера для THB"},
		{Key: "RUB_ORDER_AMOUNT", Value: "30000", Description: "Стандартная сумма ордера для RUB"},
		{Key: "DEFAULT_COMMISSION", Value: "1.0", Description: "Комиссия по умолчанию (%)"},
		{Key: "CACHE_TIMEOUT_API", Value: "300", Description: "Время кэширования API в секундах"},
		{Key: "SITE_NAME", Value: "PanterEx", Description: "Название сайта"},
		{Key: "ADMIN_CONTACT_EMAIL", Value: "admin@panterex.online", Description: "Email администратора"},
	}
}
