package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// DateTimeLayout is the zone-less timestamp format used on the wire.
	DateTimeLayout = "2006-01-02T15:04:05"
	// DateLayout is the calendar date format used on the wire.
	DateLayout = "2006-01-02"
)

var dateTimeInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	DateTimeLayout,
	"2006-01-02 15:04:05",
}

// DateTime is a local timestamp without zone information. Zoned input is
// converted to time.Local so the zone-less output names the same instant.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to whole seconds.
func NewDateTime(t time.Time) DateTime {
	return DateTime{Time: t.Truncate(time.Second)}
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("datetime: %w", err)
	}
	for _, layout := range dateTimeInputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d.Time = t.In(time.Local)
			return nil
		}
	}
	return fmt.Errorf("datetime: unsupported format %q", s)
}

// Date is a calendar date.
type Date struct {
	time.Time
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	d.Time = t
	return nil
}
