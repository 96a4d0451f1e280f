package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
}

// ErrInvalidDate is returned when a date string matches none of the accepted layouts.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate accepts RFC3339 timestamps, plain calendar dates and a few written forms.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Date is a timestamp that decodes loosely from JSON and stores as a BSON datetime.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) *Date { return &Date{Time: t.UTC()} }

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ms int64
		if err := json.Unmarshal(b, &ms); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
		}
		d.Time = time.UnixMilli(ms).UTC()
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.UTC().Format(time.RFC3339))
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.Time)
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bsontype.Null {
		return nil
	}
	raw := bson.RawValue{Type: t, Value: data}
	var tm time.Time
	if err := raw.Unmarshal(&tm); err != nil {
		return err
	}
	d.Time = tm.UTC()
	return nil
}
