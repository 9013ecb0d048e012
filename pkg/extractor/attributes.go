package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// Attribute names carrying tournament fields.
const (
	AttrName     = "data-tournament-name"
	AttrLocation = "data-location"
	AttrStart    = "data-start-date"
	AttrEnd      = "data-end-date"
	AttrSurface  = "data-surface"
)

// recordBuilder groups attribute occurrences into records. A new record
// starts when a field that is already set shows up again with a different
// value; in the usual name-first markup that is every data-tournament-name
// after the first. Repeating the current value, as a child element echoing
// its card's attribute does, leaves the record open.
type recordBuilder struct {
	current tournament.RawRecord
	set     *tournament.RecordSet
}

func newRecordBuilder() *recordBuilder {
	return &recordBuilder{set: tournament.NewRecordSet()}
}

func (b *recordBuilder) apply(key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	var field *string
	switch key {
	case AttrName:
		field = &b.current.Name
	case AttrLocation:
		field = &b.current.Location
	case AttrStart:
		field = &b.current.Start
	case AttrEnd:
		field = &b.current.End
	case AttrSurface:
		field = &b.current.Surface
	default:
		return
	}

	if *field == value {
		return
	}
	if *field != "" {
		b.flush()
		// field points into b.current, so it now targets the fresh record
	}
	*field = value
}

// flush emits the current record when it has a name, location or start.
func (b *recordBuilder) flush() {
	r := b.current
	b.current = tournament.RawRecord{}
	if r.Name == "" && r.Location == "" && r.Start == "" {
		return
	}
	b.set.Add(r)
}

func attributeRecords(doc *goquery.Document) []tournament.RawRecord {
	b := newRecordBuilder()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			for _, attr := range n.Attr {
				b.apply(strings.ToLower(attr.Key), attr.Val)
			}
		}
	})
	b.flush()

	return b.set.Records()
}
