package model

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// Float is a float64 that may be undefined. The zero value is undefined.
type Float struct {
	Value float64
	Valid bool
}

// Some returns a defined Float. NaN and infinities are treated as undefined.
func Some(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{Value: v, Valid: true}
}

// Undefined returns an undefined Float.
func Undefined() Float { return Float{} }

// Or returns the value, or def when undefined.
func (f Float) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Round rounds to the given number of decimal places; undefined stays undefined.
func (f Float) Round(places int) Float {
	if !f.Valid {
		return f
	}
	p := math.Pow(10, float64(places))
	return Some(math.Round(f.Value*p) / p)
}

// Format renders the value with the given precision, or "—" when undefined.
func (f Float) Format(prec int) string {
	if !f.Valid {
		return "—"
	}
	return strconv.FormatFloat(f.Value, 'f', prec, 64)
}

func (f Float) String() string {
	if !f.Valid {
		return "NaN"
	}
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

// Hypot returns sqrt(a² + b²), undefined if either operand is.
func Hypot(a, b Float) Float {
	if !a.Valid || !b.Valid {
		return Float{}
	}
	return Some(math.Hypot(a.Value, b.Value))
}

// Nullable returns the value for a SQL parameter: nil when undefined.
func (f Float) Nullable() driver.Value {
	if !f.Valid {
		return nil
	}
	return f.Value
}

// Scan implements sql.Scanner.
func (f *Float) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = Float{}
	case float64:
		*f = Some(v)
	case int64:
		*f = Some(float64(v))
	case []byte:
		p, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fmt.Errorf("scan float: %w", err)
		}
		*f = Some(p)
	case string:
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("scan float: %w", err)
		}
		*f = Some(p)
	default:
		return fmt.Errorf("scan float: unsupported type %T", src)
	}
	return nil
}
