package pricing

import (
	"errors"

	"github.com/Domenick1991/paraglide/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Currency string

const (
	CurrencyVND Currency = "VND"
	CurrencyUSD Currency = "USD"
)

// CurrencyFor returns the currency shown to readers of lang.
func CurrencyFor(lang domain.Language) Currency {
	if lang == domain.LanguageEN {
		return CurrencyUSD
	}
	return CurrencyVND
}

// Converter turns whole VND into whole USD. Conversion happens only when an amount is
// displayed; totals are always accumulated in VND.
type Converter struct {
	vndPerUSD int64
}

func NewConverter(vndPerUSD int64) (Converter, error) {
	if vndPerUSD <= 0 {
		return Converter{}, errors.New("pricing: vnd per usd rate must be positive")
	}
	return Converter{vndPerUSD: vndPerUSD}, nil
}

// ToUSD rounds to the nearest whole dollar, halves away from zero.
func (c Converter) ToUSD(vnd int64) int64 {
	if vnd < 0 {
		return -c.ToUSD(-vnd)
	}
	return (vnd + c.vndPerUSD/2) / c.vndPerUSD
}

// Convert expresses a VND amount in cur.
func (c Converter) Convert(vnd int64, cur Currency) int64 {
	if cur == CurrencyUSD {
		return c.ToUSD(vnd)
	}
	return vnd
}

var (
	viPrinter = message.NewPrinter(language.Vietnamese)
	enPrinter = message.NewPrinter(language.English)
)

// Format renders an amount already expressed in cur, e.g. "1.500.000 VND" or "$60".
func Format(amount int64, cur Currency) string {
	if cur == CurrencyUSD {
		if amount < 0 {
			return "-$" + enPrinter.Sprintf("%d", -amount)
		}
		return "$" + enPrinter.Sprintf("%d", amount)
	}
	return viPrinter.Sprintf("%d", amount) + " VND"
}
