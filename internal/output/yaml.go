package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// YAMLWriter writes YAML output.
type YAMLWriter struct {
	w io.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: w}
}

// WriteEnvelope writes env as a YAML document.
func (w *YAMLWriter) WriteEnvelope(env tournament.Envelope) error {
	bw := bufio.NewWriter(w.w)
	encoder := yaml.NewEncoder(bw)
	encoder.SetIndent(2)

	if err := encoder.Encode(env); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	return bw.Flush()
}
