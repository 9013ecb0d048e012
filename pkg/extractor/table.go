package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// Column order of the visible calendar table.
const (
	colDate = iota
	colName
	colLocation
	colSurface
)

// tableRecords builds one record per body row. Rows are kept even when
// empty; filtering happens during normalization.
func tableRecords(doc *goquery.Document) []tournament.RawRecord {
	records := make([]tournament.RawRecord, 0)

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		cell := func(i int) string {
			if i >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		records = append(records, tournament.RawRecord{
			Name:     cell(colName),
			Location: cell(colLocation),
			Start:    cell(colDate),
			Surface:  cell(colSurface),
		})
	})

	return records
}
