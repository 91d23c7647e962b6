package inventory

import "math"

// CriticalWindow is how many trailing months feed the reorder heuristic.
const CriticalWindow = 6

// CategoryTotal is the aggregated outgoing for one catalog category.
type CategoryTotal struct {
	Category string `json:"category"`
	Outgoing int    `json:"outgoing"`
}

// CriticalItem flags an item whose stock is at or below its reorder
// point.
type CriticalItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"item"`
	Current   int     `json:"current"`
	Mean      float64 `json:"mean_outgoing"`
	Threshold int     `json:"threshold"`
}

// ClampOutgoing floors a raw outgoing value at zero for use in aggregate
// statistics, so count corrections don't distort totals.
func ClampOutgoing(outgoing int) int {
	if outgoing < 0 {
		return 0
	}
	return outgoing
}

// MeanOutgoing averages a per-month outgoing history, clamping each month
// at zero. Empty history yields 0.
func MeanOutgoing(history []int) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0
	for _, o := range history {
		sum += ClampOutgoing(o)
	}
	return float64(sum) / float64(len(history))
}

// CriticalThreshold is the reorder point for a mean monthly consumption:
// 20% above the mean, rounded up. A heuristic, not a business rule.
func CriticalThreshold(mean float64) int {
	return int(math.Ceil(mean * 1.2))
}

// IsCritical reports whether an item with the given current stock and
// trailing outgoing history is at or below its reorder point. Items with
// no consumption are never critical.
func IsCritical(current int, history []int) bool {
	mean := MeanOutgoing(history)
	if mean <= 0 {
		return false
	}
	return current <= CriticalThreshold(mean)
}

// CategoryTotals sums zero-clamped outgoing per category, in sheet order.
func CategoryTotals(sheet []LineItem) []CategoryTotal {
	var totals []CategoryTotal
	idx := make(map[string]int)
	for _, li := range sheet {
		if li.IsCategory {
			idx[li.Category] = len(totals)
			totals = append(totals, CategoryTotal{Category: li.Category})
			continue
		}
		if i, ok := idx[li.Category]; ok {
			totals[i].Outgoing += ClampOutgoing(li.Outgoing)
		}
	}
	return totals
}

// CriticalItems scans a reconciled sheet against per-item outgoing
// history (keyed by line-item id) and returns the rows at or below their
// reorder point, in sheet order.
func CriticalItems(sheet []LineItem, history map[string][]int) []CriticalItem {
	var out []CriticalItem
	for _, li := range sheet {
		if li.IsCategory {
			continue
		}
		h := history[li.ID]
		if !IsCritical(li.Current, h) {
			continue
		}
		mean := MeanOutgoing(h)
		out = append(out, CriticalItem{
			ID:        li.ID,
			Name:      li.Name,
			Current:   li.Current,
			Mean:      mean,
			Threshold: CriticalThreshold(mean),
		})
	}
	return out
}
