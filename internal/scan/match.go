package scan

import (
	"strings"

	"github.com/pbmartins/estoque/internal/catalog"
	"github.com/pbmartins/estoque/internal/inventory"
	"github.com/pbmartins/estoque/internal/model"
)

// MatchRows maps extracted rows onto record item ids. A row matches by
// catalog code, catalog abbreviation, or a custom item's code/abbr.
// Unmatched rows are skipped; the count is reported so the caller can
// tell the user how much of the sheet was understood.
func MatchRows(rows []Row, custom []model.CustomItem) (records []model.Record, skipped int) {
	index := make(map[string]string)
	for i, e := range catalog.Entries() {
		if e.IsCategory {
			continue
		}
		id := catalog.Identifier(e, i)
		if e.Code != "" {
			index[strings.ToLower(e.Code)] = id
		}
		if e.Abbr != "" {
			index[strings.ToLower(e.Abbr)] = id
		}
	}
	for _, ci := range custom {
		id := inventory.ItemIdentifier(ci)
		if ci.Code != "" {
			index[strings.ToLower(ci.Code)] = id
		}
		if ci.Abbr != "" {
			index[strings.ToLower(ci.Abbr)] = id
		}
	}

	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Code))
		id, ok := index[key]
		if !ok {
			skipped++
			continue
		}
		records = append(records, model.Record{
			ItemID:   id,
			Previous: row.Previous,
			Received: row.Received,
			Current:  row.Current,
		})
	}
	return records, skipped
}
