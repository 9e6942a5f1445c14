package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sicko7947/petstore"
)

// DynamoDB schema constants. The table has a single string hash key.
const (
	AttrID = petstore.FieldID
)

// Expression placeholder builders

func namePlaceholder(i int) string {
	return fmt.Sprintf("#f%d", i)
}

func valuePlaceholder(i int) string {
	return fmt.Sprintf(":v%d", i)
}

func petKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

// updateExpression is a SET expression with its placeholder maps
type updateExpression struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

// buildUpdateExpression assigns every field by name: SET #f0 = :v0, #f1 = :v1.
// Attribute names always go through placeholders so reserved words are accepted.
// Fields are ordered by name to keep the expression deterministic.
func buildUpdateExpression(fields map[string]types.AttributeValue) (*updateExpression, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("update expression requires at least one field")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	expr := &updateExpression{
		Names:  make(map[string]string, len(fields)),
		Values: make(map[string]types.AttributeValue, len(fields)),
	}

	assignments := make([]string, 0, len(names))
	for i, name := range names {
		n, v := namePlaceholder(i), valuePlaceholder(i)
		expr.Names[n] = name
		expr.Values[v] = fields[name]
		assignments = append(assignments, fmt.Sprintf("%s = %s", n, v))
	}
	expr.Expression = "SET " + strings.Join(assignments, ", ")

	return expr, nil
}

// CreateTableInput describes the pets table: hash key "id" (S), on-demand billing
func CreateTableInput(tableName string) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(AttrID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(AttrID), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
}
