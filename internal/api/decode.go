package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

var null = []byte("null")

// Opt is a field that may be absent, null or of the wrong shape upstream.
// Decoding never fails: anything that does not decode into T leaves Valid false.
type Opt[T any] struct {
	Value T
	Valid bool
}

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	*o = Opt[T]{}
	if bytes.Equal(bytes.TrimSpace(b), null) {
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	o.Value, o.Valid = v, true
	return nil
}

func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

func (o Opt[T]) Or(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}

// Number accepts a JSON number or a string holding one.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("non-finite number %q", b)
	}
	*n = Number(f)
	return nil
}

// Text accepts a JSON string or a number literal, kept verbatim so large
// numeric ids do not lose precision.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("empty value")
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*t = Text(n.String())
	return nil
}

// Timestamp accepts an RFC 3339 string or a Unix epoch in seconds or milliseconds.
type Timestamp time.Time

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		*ts = Timestamp(t)
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	// values past 1e11 cannot be seconds in any plausible range
	if f > 1e11 {
		*ts = Timestamp(time.UnixMilli(int64(f)).UTC())
	} else {
		*ts = Timestamp(time.Unix(int64(f), 0).UTC())
	}
	return nil
}

func (ts Timestamp) Time() time.Time {
	return time.Time(ts)
}

// decodeObject decodes raw into T. ok is false when raw is not a JSON object
// compatible with T.
func decodeObject[T any](raw json.RawMessage) (T, bool) {
	var out T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return out, false
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// items returns the array stored under key in a top-level object, or nil when
// the body is not an object or the field is absent or not an array.
func items(body json.RawMessage, key string) []json.RawMessage {
	envelope, ok := decodeObject[map[string]Opt[[]json.RawMessage]](body)
	if !ok {
		return nil
	}
	return envelope[key].Value
}
