package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// JSONWriter writes the envelope as a single JSON document.
type JSONWriter struct {
	w      io.Writer
	pretty bool
	indent string
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      w,
		pretty: pretty,
		indent: indent,
	}
}

// WriteEnvelope writes env followed by a newline.
func (w *JSONWriter) WriteEnvelope(env tournament.Envelope) error {
	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(env, "", w.indent)
	} else {
		output, err = json.Marshal(env)
	}
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w.w)
	if _, err := bw.Write(output); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

// JSONLWriter writes one entry per line. A failed run has no entries, so
// its envelope is written as the only line instead.
type JSONLWriter struct {
	w io.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{w: w}
}

// WriteEnvelope writes the envelope's entries as JSON lines.
func (w *JSONLWriter) WriteEnvelope(env tournament.Envelope) error {
	bw := bufio.NewWriter(w.w)
	enc := json.NewEncoder(bw)

	if !env.OK {
		if err := enc.Encode(env); err != nil {
			return err
		}
		return bw.Flush()
	}

	for _, entry := range env.Items {
		if err := enc.Encode(entry); err != nil {
			return err
		}
	}
	return bw.Flush()
}
