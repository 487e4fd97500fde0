package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONFormatter writes indented JSON. HTML characters in labels and
// messages are left unescaped.
type JSONFormatter struct{}

// Format writes data as one JSON document. Values JSON cannot represent,
// such as a NaN statistic, are an error.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("json output: %w", err)
	}
	return nil
}
