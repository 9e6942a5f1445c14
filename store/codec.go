package store

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/sicko7947/petstore"
)

// Pets are schemaless, so records are converted attribute by attribute rather
// than through struct tags. Numbers are kept as decimal.Decimal in both directions
// so no precision is lost to float64.

func marshalPet(pet petstore.Pet) (map[string]types.AttributeValue, error) {
	return marshalFields(pet)
}

func marshalFields(fields map[string]any) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(fields))
	for name, value := range fields {
		av, err := marshalValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal field %q: %w", name, err)
		}
		item[name] = av
	}
	return item, nil
}

func marshalValue(v any) (types.AttributeValue, error) {
	switch val := v.(type) {
	case decimal.Decimal:
		if !petstore.InNumberRange(val) {
			return nil, fmt.Errorf("number out of range: exponent %d", val.Exponent())
		}
		return &types.AttributeValueMemberN{Value: val.String()}, nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		if !petstore.InNumberRange(d) {
			return nil, fmt.Errorf("number out of range %q", val.String())
		}
		return &types.AttributeValueMemberN{Value: d.String()}, nil
	case petstore.Pet:
		return marshalMap(val)
	case map[string]any:
		return marshalMap(val)
	case []any:
		list := make([]types.AttributeValue, len(val))
		for i, item := range val {
			av, err := marshalValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = av
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	default:
		return attributevalue.Marshal(v)
	}
}

func marshalMap(m map[string]any) (types.AttributeValue, error) {
	fields, err := marshalFields(m)
	if err != nil {
		return nil, err
	}
	return &types.AttributeValueMemberM{Value: fields}, nil
}

func unmarshalPet(item map[string]types.AttributeValue) (petstore.Pet, error) {
	pet := make(petstore.Pet, len(item))
	for name, av := range item {
		value, err := unmarshalValue(av)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal field %q: %w", name, err)
		}
		pet[name] = value
	}
	return pet, nil
}

func unmarshalValue(av types.AttributeValue) (any, error) {
	switch val := av.(type) {
	case *types.AttributeValueMemberN:
		return decimal.NewFromString(val.Value)
	case *types.AttributeValueMemberNS:
		list := make([]any, len(val.Value))
		for i, n := range val.Value {
			d, err := decimal.NewFromString(n)
			if err != nil {
				return nil, err
			}
			list[i] = d
		}
		return list, nil
	case *types.AttributeValueMemberM:
		m := make(map[string]any, len(val.Value))
		for k, item := range val.Value {
			value, err := unmarshalValue(item)
			if err != nil {
				return nil, err
			}
			m[k] = value
		}
		return m, nil
	case *types.AttributeValueMemberL:
		list := make([]any, len(val.Value))
		for i, item := range val.Value {
			value, err := unmarshalValue(item)
			if err != nil {
				return nil, err
			}
			list[i] = value
		}
		return list, nil
	default:
		var out any
		if err := attributevalue.Unmarshal(av, &out); err != nil {
			return nil, err
		}
		return out, nil
	}
}
