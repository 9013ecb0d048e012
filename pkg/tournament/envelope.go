package tournament

// Envelope is the result of one scraper run. Items and Data carry the same
// entries; both are kept for clients that read either key.
type Envelope struct {
	OK      bool    `json:"ok" yaml:"ok"`
	Success bool    `json:"success" yaml:"success"`
	Source  string  `json:"source" yaml:"source"`
	Count   int     `json:"count" yaml:"count"`
	Items   []Entry `json:"items" yaml:"items"`
	Data    []Entry `json:"data" yaml:"data"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Success builds the envelope for a completed run.
func Success(source string, entries []Entry) Envelope {
	if entries == nil {
		entries = []Entry{}
	}
	return Envelope{
		OK:      true,
		Success: true,
		Source:  source,
		Count:   len(entries),
		Items:   entries,
		Data:    entries,
	}
}

// Failure builds the envelope for a run that could not load or read the
// first page. Items and Data are empty arrays, never null.
func Failure(source string, err error) Envelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Envelope{
		Source: source,
		Items:  []Entry{},
		Data:   []Entry{},
		Error:  msg,
	}
}

// SourceURL builds the calendar URL for a year and an optional nation code.
func SourceURL(base, year, nation string) string {
	u := base + "?categories=All&startdate=" + year
	if nation != "" {
		u += "&nation=" + nation
	}
	return u
}
