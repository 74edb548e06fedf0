package domain

import (
	"database/sql/driver"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// Decimal is a wrapper around apd.Decimal to provide easy database
// serialization and clean arithmetic methods for the domain layer.
type Decimal struct {
	apd.Decimal
}

// DefaultContext is used for arithmetic operations.
var DefaultContext = apd.BaseContext.WithPrecision(20)

// Zero constant for convenience
var Zero = NewDecimalFromInt(0)

// NewDecimalFromInt creates a Decimal from an int64
func NewDecimalFromInt(v int64) Decimal {
	d := Decimal{}
	d.SetInt64(v)
	return d
}

// NewDecimalFromString creates a Decimal from a string
func NewDecimalFromString(v string) (Decimal, error) {
	d := Decimal{}
	_, _, err := d.SetString(v)
	if err != nil {
		return d, fmt.Errorf("invalid decimal string %s: %w", v, err)
	}
	return d, nil
}

// MustDecimal creates a Decimal from a string and panics on a malformed
// value. Intended for constants and tests.
func MustDecimal(v string) Decimal {
	d, err := NewDecimalFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// String implements the fmt.Stringer interface.
func (d Decimal) String() string {
	return d.Decimal.String()
}

// Value implements the driver.Valuer interface for database serialization.
func (d Decimal) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (d *Decimal) Scan(value interface{}) error {
	if value == nil {
		d.SetInt64(0)
		return nil
	}

	switch v := value.(type) {
	case []byte:
		_, _, err := d.SetString(string(v))
		return err
	case string:
		_, _, err := d.SetString(v)
		return err
	case int64:
		d.SetInt64(v)
		return nil
	case float64:
		_, err := d.SetFloat64(v)
		if err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported type for Decimal scan: %T", value)
	}
}

// Arithmetic Helpers

func (d Decimal) Add(other Decimal) (Decimal, error) {
	res := Decimal{}
	if _, err := DefaultContext.Add(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("add operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) Sub(other Decimal) (Decimal, error) {
	res := Decimal{}
	if _, err := DefaultContext.Sub(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("sub operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) Mul(other Decimal) (Decimal, error) {
	res := Decimal{}
	if _, err := DefaultContext.Mul(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("mul operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) Div(other Decimal) (Decimal, error) {
	if other.IsZero() {
		return Zero, fmt.Errorf("division by zero")
	}
	res := Decimal{}
	if _, err := DefaultContext.Quo(&res.Decimal, &d.Decimal, &other.Decimal); err != nil {
		return res, fmt.Errorf("div operation failed: %w", err)
	}
	return res, nil
}

func (d Decimal) IsZero() bool {
	return d.Decimal.IsZero()
}

func (d Decimal) Equal(other Decimal) bool {
	return d.Decimal.Cmp(&other.Decimal) == 0
}

func (d Decimal) Cmp(other Decimal) int {
	return d.Decimal.Cmp(&other.Decimal)
}

// Abs returns the absolute value.
func (d Decimal) Abs() Decimal {
	res := Decimal{}
	res.Decimal.Abs(&d.Decimal)
	return res
}

// MarshalJSON implements the json.Marshaler interface.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	// Remove quotes if present
	s := string(data)
	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	_, _, err := d.SetString(s)
	return err
}

// NullDecimal is a Decimal that may hold SQL NULL. Nearly every
// fundamental metric on an asset is optional, so the registry leans on
// this type heavily.
type NullDecimal struct {
	Decimal Decimal
	Valid   bool
}

// NewNullDecimal wraps a Decimal as a present value.
func NewNullDecimal(d Decimal) NullDecimal {
	return NullDecimal{Decimal: d, Valid: true}
}

// Value implements the driver.Valuer interface.
func (n NullDecimal) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Decimal.Value()
}

// Scan implements the sql.Scanner interface.
func (n *NullDecimal) Scan(value interface{}) error {
	if value == nil {
		n.Decimal, n.Valid = Decimal{}, false
		return nil
	}
	n.Valid = true
	return n.Decimal.Scan(value)
}

// MarshalJSON renders NULL as JSON null.
func (n NullDecimal) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.Decimal.MarshalJSON()
}

// UnmarshalJSON accepts a JSON number, quoted number or null.
func (n *NullDecimal) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		n.Decimal, n.Valid = Decimal{}, false
		return nil
	}
	if err := n.Decimal.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
