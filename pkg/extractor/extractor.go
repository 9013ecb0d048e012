// Package extractor reads tournament records out of a rendered calendar page.
//
// Two strategies are tried per page. The attribute strategy scans data-*
// attributes in document order; the table strategy reads the visible
// calendar table. The table strategy is only used when the attribute
// strategy finds fewer than MinAttributeRecords records.
package extractor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// ErrExtractionFailure indicates the page content could not be read.
var ErrExtractionFailure = errors.New("extraction failure")

// MinAttributeRecords is the number of attribute records below which the
// table strategy takes over.
const MinAttributeRecords = 3

// Strategy identifies which extraction strategy produced a result.
type Strategy string

const (
	StrategyNone       Strategy = "none"
	StrategyAttributes Strategy = "attributes"
	StrategyTable      Strategy = "table"
)

// Result is the outcome of extracting one page.
type Result struct {
	Records  []tournament.RawRecord
	Strategy Strategy
}

// Page extracts records from a page's HTML.
func Page(html string) (Result, error) {
	doc, err := parse(html)
	if err != nil {
		return Result{Strategy: StrategyNone}, err
	}

	attrs := attributeRecords(doc)
	if len(attrs) >= MinAttributeRecords {
		return Result{Records: attrs, Strategy: StrategyAttributes}, nil
	}

	rows := tableRecords(doc)
	if len(rows) > 0 {
		return Result{Records: rows, Strategy: StrategyTable}, nil
	}

	if len(attrs) > 0 {
		return Result{Records: attrs, Strategy: StrategyAttributes}, nil
	}
	return Result{Records: []tournament.RawRecord{}, Strategy: StrategyNone}, nil
}

// Attributes runs only the attribute strategy.
func Attributes(html string) ([]tournament.RawRecord, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}
	return attributeRecords(doc), nil
}

// Table runs only the table strategy.
func Table(html string) ([]tournament.RawRecord, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}
	return tableRecords(doc), nil
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrExtractionFailure, err)
	}
	return doc, nil
}
