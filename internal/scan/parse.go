package scan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pbmartins/estoque/internal/inventory"
)

// ParseResult decodes the model's JSON answer. Markdown code fences are
// stripped since models wrap JSON in them regardless of instructions.
func ParseResult(raw string) ([]MonthGroup, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var groups []MonthGroup
	if err := json.Unmarshal([]byte(clean), &groups); err != nil {
		return nil, fmt.Errorf("decode extraction result: %w", err)
	}

	valid := groups[:0]
	for _, g := range groups {
		if !inventory.ValidMonth(g.Month) || len(g.Rows) == 0 {
			continue
		}
		valid = append(valid, g)
	}
	if len(valid) == 0 {
		return nil, ErrNoMonths
	}
	return valid, nil
}
