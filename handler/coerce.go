package handler

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sicko7947/petstore"
)

// numericLiteral matches finite ASCII decimal literals: 3, -1.5, .5, 5., 1e3, +2.5E-4
var numericLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// parseDecimal classifies s as a finite decimal literal and parses it
func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !numericLiteral.MatchString(s) {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil || !petstore.InNumberRange(d) {
		return decimal.Decimal{}, false
	}
	return d, true
}

// toDecimal converts numbers and numeric-looking strings. ok is false for
// anything else, including booleans, non-numeric text and values outside
// petstore.InNumberRange.
func toDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, petstore.InNumberRange(v)
	case json.Number:
		return parseDecimal(v.String())
	case string:
		return parseDecimal(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Decimal{}, false
		}
		d := decimal.NewFromFloat(v)
		return d, petstore.InNumberRange(d)
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case int32:
		return decimal.NewFromInt32(v), true
	default:
		return decimal.Decimal{}, false
	}
}

// coercePrice converts a create payload price to a decimal
func coercePrice(value any) (decimal.Decimal, error) {
	d, ok := toDecimal(value)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %v", petstore.ErrInvalidPrice, value)
	}
	return d, nil
}

// coerceField is the update path coercion. It is total: numbers and numeric
// strings become decimals, every other value is returned unchanged.
func coerceField(value any) any {
	if d, ok := toDecimal(value); ok {
		return d
	}
	return value
}
