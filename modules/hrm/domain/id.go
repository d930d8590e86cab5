package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
)

// ID is an identifier as the API sends it: a JSON number or string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "decode id")
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "decode id")
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric identifiers as numbers.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

func (id ID) Int() (int, error) {
	return strconv.Atoi(string(id))
}

// canonical picks the resource-named identifier and falls back to the
// legacy bare "id".
func canonical(named, legacy ID) ID {
	if named != "" {
		return named
	}
	return legacy
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
