package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Moment is a point in time that also accepts the zone-less
// "2006-01-02T15:04" form produced by date-time pickers. Zone-less
// values are read in the local time zone.
type Moment struct {
	time.Time
}

var momentLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewMoment wraps t.
func NewMoment(t time.Time) *Moment {
	return &Moment{Time: t}
}

// ParseMoment parses s using the accepted layouts.
func ParseMoment(s string) (Moment, error) {
	for i, layout := range momentLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return Moment{Time: t}, nil
		}
	}
	return Moment{}, fmt.Errorf("parsing time %q: unsupported format", s)
}

// UnmarshalJSON implements json.Unmarshaler. An empty string, which a
// cleared picker writes, leaves m zero; Task drops a zero deadline.
func (m *Moment) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding time: %w", err)
	}
	if s == "" {
		*m = Moment{}
		return nil
	}
	parsed, err := ParseMoment(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
