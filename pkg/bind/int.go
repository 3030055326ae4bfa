package bind

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Int is an integer field that accepts both a JSON number and a numeric
// string. Valid is false when the field was absent or null.
type Int struct {
	Value int64
	Valid bool
}

func (i *Int) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*i = Int{}
		return nil
	}

	raw := string(b)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", b)
	}
	*i = Int{Value: n, Valid: true}
	return nil
}

// IsZero reports whether the field was omitted.
func (i Int) IsZero() bool { return !i.Valid }

// Or returns the value, or def when the field was omitted.
func (i Int) Or(def int64) int64 {
	if !i.Valid {
		return def
	}
	return i.Value
}
