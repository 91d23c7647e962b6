package inventory

import (
	"sort"

	"github.com/pbmartins/estoque/internal/catalog"
	"github.com/pbmartins/estoque/internal/model"
)

// LineItem is one display-ready row of the reconciled monthly sheet. It is
// never persisted; it is recomputed on every read.
type LineItem struct {
	ID         string `json:"id"`
	Code       string `json:"code,omitempty"`
	Name       string `json:"item"`
	Category   string `json:"category"`
	Abbr       string `json:"abbr,omitempty"`
	IsCategory bool   `json:"is_category"`
	IsCustom   bool   `json:"is_custom,omitempty"`
	Previous   int    `json:"previous"`
	Received   int    `json:"received"`
	Current    int    `json:"current"`
	Outgoing   int    `json:"outgoing"`
}

// ItemIdentifier returns the record key for a custom item: its code when
// set, else its abbreviation, else the generated id. Mirrors the catalog
// identifier rules so a custom row can shadow (and be hidden by) an
// official one.
func ItemIdentifier(ci model.CustomItem) string {
	if ci.Code != "" {
		return ci.Code
	}
	if ci.Abbr != "" {
		return ci.Abbr
	}
	return ci.ID
}

// Reconcile merges the catalog, the owner's custom items and the month's
// records into the single ordered sheet. It is a pure function of its
// inputs: calling it twice yields identical output, and a nil or partial
// records map produces a sheet with all quantities zeroed.
//
// Catalog order is preserved. The owner's custom items are emitted at
// the end of their category, after its official rows and before the next
// header, sorted by sort order with creation time then id as tie-breaks,
// skipping any whose identifier collides with a catalog identifier.
func Reconcile(entries []catalog.Entry, custom []model.CustomItem, records map[string]model.Record) []LineItem {
	catalogIDs := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		catalogIDs[catalog.Identifier(e, i)] = struct{}{}
	}

	byCategory := make(map[string][]model.CustomItem)
	for _, ci := range custom {
		byCategory[ci.Category] = append(byCategory[ci.Category], ci)
	}
	for _, group := range byCategory {
		sort.SliceStable(group, func(a, b int) bool {
			if group[a].SortOrder != group[b].SortOrder {
				return group[a].SortOrder < group[b].SortOrder
			}
			if !group[a].CreatedAt.Equal(group[b].CreatedAt) {
				return group[a].CreatedAt.Before(group[b].CreatedAt)
			}
			return group[a].ID < group[b].ID
		})
	}

	sheet := make([]LineItem, 0, len(entries)+len(custom))
	var openCategory string

	// closeCategory appends the open category's custom items; they sit
	// after the official rows, before the next header.
	closeCategory := func() {
		if openCategory == "" {
			return
		}
		for _, ci := range byCategory[openCategory] {
			ciID := ItemIdentifier(ci)
			if _, shadowed := catalogIDs[ciID]; shadowed {
				continue
			}
			sheet = append(sheet, lineItem(ciID, ci.Code, ci.Name, ci.Category, ci.Abbr, false, true, records))
		}
		openCategory = ""
	}

	for i, e := range entries {
		if e.IsCategory {
			closeCategory()
			openCategory = e.Name
		}
		id := catalog.Identifier(e, i)
		sheet = append(sheet, lineItem(id, e.Code, e.Name, e.Category, e.Abbr, e.IsCategory, false, records))
	}
	closeCategory()

	return sheet
}

func lineItem(id, code, name, category, abbr string, isCategory, isCustom bool, records map[string]model.Record) LineItem {
	li := LineItem{
		ID:         id,
		Code:       code,
		Name:       name,
		Category:   category,
		Abbr:       abbr,
		IsCategory: isCategory,
		IsCustom:   isCustom,
	}
	if isCategory {
		return li
	}
	if r, ok := records[id]; ok {
		li.Previous = r.Previous
		li.Received = r.Received
		li.Current = r.Current
	}
	li.Outgoing = ComputeOutgoing(li.Previous, li.Received, li.Current)
	return li
}
