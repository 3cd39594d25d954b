package catalog

import (
	"encoding/json"
	"math"
	"strconv"
)

// The normalizer is the parse-and-validate boundary for untrusted payloads.
// It never fails: unparseable numerics coerce to NaN and unparseable
// identifiers to zero, both of which downstream code treats as absent.

// InvalidID is the sentinel produced for missing or unparseable identifiers.
const InvalidID int64 = 0

// Normalize canonicalizes a raw record into a Product. Missing optional
// fields take their zero defaults, numeric-like strings are coerced, and an
// already canonical record round-trips unchanged.
func Normalize(r Record) Product {
	p := Product{
		ID:       CoerceID(r["_id"]),
		Name:     coerceString(r["name"]),
		Category: coerceString(r["category"]),
	}

	if v, present := r["price"]; present && v != nil {
		p.Price = coerceNumber(v)
	}
	if v, present := r["rating"]; present && v != nil {
		p.Rating = coerceNumber(v)
	}
	if v, present := r["warranty_years"]; present && v != nil {
		if years, ok := coerceInt(v); ok {
			p.WarrantyYears = &years
		}
	}
	if v, present := r["available"]; present && v != nil {
		p.Available = coerceBool(v)
	}
	return p
}

// Merge applies the fields present in the record onto base, preserving
// everything absent. The identifier always stays the base one.
func Merge(base Product, r Record) Product {
	p := base
	if v, present := r["name"]; present && v != nil {
		p.Name = coerceString(v)
	}
	if v, present := r["category"]; present && v != nil {
		p.Category = coerceString(v)
	}
	if v, present := r["price"]; present && v != nil {
		p.Price = coerceNumber(v)
	}
	if v, present := r["rating"]; present && v != nil {
		p.Rating = coerceNumber(v)
	}
	if v, present := r["warranty_years"]; present && v != nil {
		if years, ok := coerceInt(v); ok {
			p.WarrantyYears = &years
		}
	}
	if v, present := r["available"]; present && v != nil {
		p.Available = coerceBool(v)
	}
	return p
}

// CoerceID extracts a numeric identifier from any wire representation,
// returning InvalidID when there is none.
func CoerceID(v any) int64 {
	if v == nil {
		return InvalidID
	}
	if id, ok := coerceInt(v); ok && id > 0 {
		return id
	}
	return InvalidID
}

func coerceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// coerceNumber accepts every numeric shape JSON decoding can produce plus
// numeric strings. Anything else yields NaN.
func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return math.NaN()
}

func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case uint:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case float32:
		return coerceInt(float64(n))
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
		// Tolerate decimal strings that carry an integral value.
		if f, err := strconv.ParseFloat(n, 64); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	}
	return 0, false
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}
