// Package scan extracts monthly inventory counts from photographed or
// scanned paper sheets.
package scan

import (
	"context"
	"errors"
)

// ErrNoMonths means the extractor found no recognizable month groups in
// the pages. Callers treat this as a failed extraction and write nothing.
var ErrNoMonths = errors.New("nenhum mês reconhecido no documento")

// Page is one uploaded document page.
type Page struct {
	MIMEType string
	Data     []byte
}

// Row is one publication line read off the sheet. Code may be a catalog
// code or an abbreviation.
type Row struct {
	Code     string `json:"code"`
	Item     string `json:"item"`
	Previous int    `json:"previous"`
	Received int    `json:"received"`
	Current  int    `json:"current"`
}

// MonthGroup is every row detected for one YYYY-MM month.
type MonthGroup struct {
	Month string `json:"month"`
	Rows  []Row  `json:"rows"`
}

// Extractor turns document pages into month groups. referenceDate
// (YYYY-MM-DD) anchors relative month headings like "mês passado".
type Extractor interface {
	Extract(ctx context.Context, pages []Page, referenceDate string) ([]MonthGroup, error)
}
