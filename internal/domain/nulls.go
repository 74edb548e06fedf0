package domain

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"time"
)

// NullInt64 is sql.NullInt64 with JSON support: absent values render as
// null instead of the driver struct.
type NullInt64 struct {
	sql.NullInt64
}

func NewNullInt64(v int64) NullInt64 {
	return NullInt64{sql.NullInt64{Int64: v, Valid: true}}
}

func (n NullInt64) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Int64)
}

func (n *NullInt64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Int64, n.Valid = 0, false
		return nil
	}
	if err := json.Unmarshal(data, &n.Int64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// NullDate is a nullable calendar date, rendered as "2006-01-02".
type NullDate struct {
	sql.NullTime
}

func NewNullDate(t time.Time) NullDate {
	return NullDate{sql.NullTime{Time: midnightUTC(t), Valid: true}}
}

func (n NullDate) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Time, nil
}

func (n NullDate) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Time.Format(DateLayout))
}

func (n *NullDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Time, n.Valid = time.Time{}, false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	n.Time, n.Valid = t, true
	return nil
}
