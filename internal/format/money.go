package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts are Canadian dollars, shown with English digit grouping
var moneyPrinter = message.NewPrinter(language.English)

// Money renders an amount as $1,234.50
func Money(d decimal.Decimal) string {
	rounded := d.Round(2)
	abs := rounded.Abs()
	whole := abs.Truncate(0)
	cents := abs.Sub(whole).Shift(2).IntPart()

	s := "$" + moneyPrinter.Sprintf("%d", whole.IntPart()) + fmt.Sprintf(".%02d", cents)
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}

// SignedMoney prefixes debits with a minus sign
func SignedMoney(d decimal.Decimal, direction string) string {
	if strings.EqualFold(direction, "debit") && d.IsPositive() {
		return Money(d.Neg())
	}
	return Money(d)
}

// Date renders a timestamp in the local zone, or "-" when unset
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
