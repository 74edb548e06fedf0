package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNullInt64_JSON(t *testing.T) {
	data, err := json.Marshal(NewNullInt64(42))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "42" {
		t.Errorf("expected 42, got %s", data)
	}

	data, err = json.Marshal(NullInt64{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("expected null, got %s", data)
	}

	var n NullInt64
	if err := json.Unmarshal([]byte("7"), &n); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !n.Valid || n.Int64 != 7 {
		t.Errorf("expected valid 7, got %+v", n)
	}

	if err := json.Unmarshal([]byte("null"), &n); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if n.Valid {
		t.Error("expected invalid NullInt64 from null")
	}
}

func TestNullDate_JSON(t *testing.T) {
	d := NewNullDate(time.Date(2024, 3, 15, 14, 30, 0, 0, time.Local))

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"2024-03-15"` {
		t.Errorf("expected \"2024-03-15\", got %s", data)
	}

	var back NullDate
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !back.Valid || back.Time.Format(DateLayout) != "2024-03-15" {
		t.Errorf("expected 2024-03-15, got %+v", back)
	}

	data, err = json.Marshal(NullDate{})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != "null" {
		t.Errorf("expected null, got %s", data)
	}
}
