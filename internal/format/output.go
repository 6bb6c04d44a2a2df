package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes a CLI result as strict JSON, one document per invocation.
// Commands wrap their payload in {"data": ...} with an optional "notice"
// string; anything else on stdout would break piped consumers.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
