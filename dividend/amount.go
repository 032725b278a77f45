package dividend

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPattern matches a currency-tagged amount such as "$0.50", "€1,20" or "HK$ 1,234.5"
var AmountPattern = regexp.MustCompile(`(CA\$|€|£|DKK|KWD|THB|NOK|₹|HK\$|R\$|\$)\s?\d{1,3}(?:[,.]?\d{1,3})*(?:\.\d{1,2})?`)

var currencyPrefix = regexp.MustCompile(`^(CA\$|€|£|DKK|KWD|THB|NOK|₹|HK\$|R\$|\$)\s?`)

// Amount is the numeric view of a scraped amount
type Amount struct {
	Currency string
	Value    decimal.Decimal
}

// ParseAmount splits a scraped amount into currency and value. A single
// trailing comma followed by one or two digits is a decimal separator;
// every other comma separates thousands.
func ParseAmount(s string) (Amount, bool) {
	s = strings.TrimSpace(s)
	m := currencyPrefix.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, false
	}
	number := strings.TrimSpace(s[len(m[0]):])

	lastComma, lastDot := strings.LastIndex(number, ","), strings.LastIndex(number, ".")
	if lastComma > lastDot && strings.Count(number, ",") == 1 && len(number)-lastComma-1 <= 2 {
		number = strings.ReplaceAll(number[:lastComma], ".", "") + "." + number[lastComma+1:]
	} else {
		number = strings.ReplaceAll(number, ",", "")
	}

	value, err := decimal.NewFromString(number)
	if err != nil {
		return Amount{}, false
	}
	return Amount{Currency: m[1], Value: value}, true
}
