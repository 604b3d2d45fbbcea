package format

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencyAmountRe = regexp.MustCompile(`\$(\d+)`)

// CurrencyFormatter rewrites $-prefixed digit runs with locale thousands
// separators. It runs after normalization, immediately before render.
type CurrencyFormatter struct {
	printer *message.Printer
}

// NewCurrencyFormatter builds a formatter for the given locale.
func NewCurrencyFormatter(tag language.Tag) *CurrencyFormatter {
	return &CurrencyFormatter{printer: message.NewPrinter(tag)}
}

// NewDefaultCurrencyFormatter uses English digit grouping.
func NewDefaultCurrencyFormatter() *CurrencyFormatter {
	return NewCurrencyFormatter(language.English)
}

// Format inserts thousands separators into every $<digits> token. Text with
// no such tokens passes through unchanged; amounts that already carry
// separators keep them, since the digit run stops at the first comma.
func (f *CurrencyFormatter) Format(text string) string {
	if !strings.Contains(text, "$") {
		return text
	}
	return currencyAmountRe.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.ParseInt(m[1:], 10, 64)
		if err != nil {
			return m
		}
		return "$" + f.printer.Sprintf("%d", n)
	})
}
