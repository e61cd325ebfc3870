package present

import (
	"strings"

	"invoicr/internal/tabular"
)

// prefixCurrencies are the symbols and codes that conventionally precede the
// number. Anything else is suffixed.
var prefixCurrencies = map[string]bool{
	"$":   true,
	"€":   true,
	"£":   true,
	"¥":   true,
	"₹":   true,
	"USD": true,
	"EUR": true,
	"GBP": true,
	"JPY": true,
	"INR": true,
}

// FormatPriceWithCurrency renders a price cell with its currency token. A
// null price stays null regardless of currency; a missing or blank currency
// leaves the plain numeric string form unchanged.
func FormatPriceWithCurrency(price, currency any) any {
	if price == nil {
		return nil
	}

	priceStr := tabular.CellString(price)
	cur := strings.TrimSpace(tabular.CellString(currency))
	if cur == "" {
		return priceStr
	}

	if prefixCurrencies[cur] {
		return cur + priceStr
	}
	return priceStr + cur
}
