package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// WireID is an identifier the API may send either as a JSON string or as a
// JSON number. Both decode to the same string form.
type WireID string

func (id *WireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = WireID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number, got %s", string(b))
	}
	*id = WireID(n.String())
	return nil
}

func (id WireID) String() string { return string(id) }
