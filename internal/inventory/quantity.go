package inventory

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// ComputeOutgoing returns the quantity consumed during a month. Negative
// results are legitimate in the raw ledger (a count correction); callers
// aggregating across months clamp at zero instead.
func ComputeOutgoing(previous, received, current int) int {
	return previous + received - current
}

// FormatQuantity renders a quantity for display: nil and empty string
// become "", numbers get pt-BR digit grouping with no fractional part,
// and any other value is passed through unchanged.
func FormatQuantity(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int:
		return ptBR.Sprintf("%d", n)
	case int64:
		return ptBR.Sprintf("%d", n)
	case float64:
		return ptBR.Sprintf("%.0f", n)
	default:
		return fmt.Sprint(v)
	}
}
