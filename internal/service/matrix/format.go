package matrix

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.Japanese)

// FormatAmount renders an amount with thousands separators, the way the
// grid displays cell values.
func FormatAmount(v int64) string {
	return amountPrinter.Sprintf("%d", v)
}
