package currency

import (
	"math"
	"strconv"
)

// FormatAmount is the canonical price representation: exactly two decimals,
// no grouping.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// Format renders an amount for display, e.g. "1,234.50 PLN".
func Format(amount float64, code string) string {
	cents := math.Round(amount * 100)

	negative := cents < 0
	if negative {
		cents = -cents
	}

	intPart := strconv.FormatFloat(math.Floor(cents/100), 'f', 0, 64)
	frac := int(math.Mod(cents, 100))

	result := addThousandsSeparator(intPart, ",") + "." + twoDigits(frac)
	if negative {
		result = "-" + result
	}
	if code != "" {
		result += " " + code
	}

	return result
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
