// Package tournament defines the calendar records produced by the scraper
// and the post-processing that turns raw page records into output entries.
package tournament

// RawRecord is one unprocessed record as extracted from a page.
// An empty string means the field was not present.
type RawRecord struct {
	Name     string
	Location string
	Start    string
	End      string
	Surface  string
}

// IsEmpty reports whether no field is populated.
func (r RawRecord) IsEmpty() bool {
	return r == RawRecord{}
}

// Entry is a normalized tournament as returned to callers.
type Entry struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	City     string `json:"city,omitempty" yaml:"city,omitempty"`
	Country  string `json:"country,omitempty" yaml:"country,omitempty"`
	StartISO string `json:"startISO,omitempty" yaml:"startISO,omitempty"`
	EndISO   string `json:"endISO,omitempty" yaml:"endISO,omitempty"`
	Level    string `json:"level,omitempty" yaml:"level,omitempty"`
	Surface  string `json:"surface,omitempty" yaml:"surface,omitempty"`
}

// RecordSet accumulates raw records, keeping one copy of each
// structurally identical record in first-insertion order.
type RecordSet struct {
	seen    map[RawRecord]struct{}
	records []RawRecord
}

// NewRecordSet creates an empty set.
func NewRecordSet() *RecordSet {
	return &RecordSet{
		seen:    make(map[RawRecord]struct{}),
		records: make([]RawRecord, 0),
	}
}

// Add inserts r and reports whether it was new.
func (s *RecordSet) Add(r RawRecord) bool {
	if _, ok := s.seen[r]; ok {
		return false
	}
	s.seen[r] = struct{}{}
	s.records = append(s.records, r)
	return true
}

// AddAll inserts every record and returns how many were new.
func (s *RecordSet) AddAll(records []RawRecord) int {
	added := 0
	for _, r := range records {
		if s.Add(r) {
			added++
		}
	}
	return added
}

// Len returns the number of distinct records.
func (s *RecordSet) Len() int {
	return len(s.records)
}

// Records returns the records in insertion order.
func (s *RecordSet) Records() []RawRecord {
	out := make([]RawRecord, len(s.records))
	copy(out, s.records)
	return out
}
