package petstore

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Record field names
const (
	// FieldID is the partition key. It is generated on create and never changes.
	FieldID    = "id"
	FieldPrice = "price"
)

// Path parameter carrying the pet identifier
const PathParamPetID = "petId"

// Pet is a schemaless pet record. Every stored pet carries a string FieldID;
// all other fields are caller defined. Numbers are held as decimal.Decimal.
type Pet map[string]any

// ID returns the record identifier, or "" when the record has none
func (p Pet) ID() string {
	id, _ := p[FieldID].(string)
	return id
}

// Clone returns a deep copy of the record
func (p Pet) Clone() Pet {
	if p == nil {
		return nil
	}
	return Pet(cloneMap(p))
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies maps and slices nested in a record value.
// Scalars (including decimal.Decimal) are immutable and returned as is.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case Pet:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []byte:
		out := make([]byte, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// Number attributes hold magnitudes from 1e-130 up to just under 1e126
const (
	maxNumberExponent = 125
	minNumberExponent = -130
)

// InNumberRange reports whether d fits the record store's number type.
// Values outside it would also expand to enormous strings when rendered.
func InNumberRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}

	coef := d.Coefficient()
	digits := len(coef.Abs(coef).String())
	adjusted := int64(d.Exponent()) + int64(digits) - 1

	return adjusted >= minNumberExponent && adjusted <= maxNumberExponent
}

// NormalizeNumbers converts every json.Number found in v, at any depth, into
// a decimal.Decimal. Numbers that do not parse or fall outside InNumberRange
// are left untouched.
func NormalizeNumbers(v any) any {
	switch val := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil || !InNumberRange(d) {
			return val
		}
		return d
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = NormalizeNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = NormalizeNumbers(item)
		}
		return out
	default:
		return v
	}
}
