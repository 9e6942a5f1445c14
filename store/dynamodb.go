package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sicko7947/petstore"
)

// DynamoDBStore implements petstore.PetStore using AWS DynamoDB
type DynamoDBStore struct {
	client    DynamoDBClient
	tableName string
}

// NewDynamoDBStore creates a new DynamoDB-backed pet store
func NewDynamoDBStore(client DynamoDBClient, tableName string) petstore.PetStore {
	return &DynamoDBStore{
		client:    client,
		tableName: tableName,
	}
}

func (s *DynamoDBStore) GetPet(ctx context.Context, id string) (petstore.Pet, bool, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       petKey(id),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get pet: %w", err)
	}

	if result.Item == nil {
		return nil, false, nil
	}

	pet, err := unmarshalPet(result.Item)
	if err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal pet %s: %w", id, err)
	}

	return pet, true, nil
}

func (s *DynamoDBStore) ListPets(ctx context.Context) ([]petstore.Pet, error) {
	pets := []petstore.Pet{}
	var lastEvaluatedKey map[string]types.AttributeValue

	// Paginate through all results
	for {
		scanInput := &dynamodb.ScanInput{
			TableName: aws.String(s.tableName),
		}

		if lastEvaluatedKey != nil {
			scanInput.ExclusiveStartKey = lastEvaluatedKey
		}

		result, err := s.client.Scan(ctx, scanInput)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pets: %w", err)
		}

		for _, item := range result.Items {
			pet, err := unmarshalPet(item)
			if err != nil {
				return nil, fmt.Errorf("failed to unmarshal pet: %w", err)
			}
			pets = append(pets, pet)
		}

		// Check if there are more results
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		lastEvaluatedKey = result.LastEvaluatedKey
	}

	return pets, nil
}

func (s *DynamoDBStore) PutPet(ctx context.Context, pet petstore.Pet) error {
	if pet.ID() == "" {
		return fmt.Errorf("pet has no %s", AttrID)
	}

	item, err := marshalPet(pet)
	if err != nil {
		return fmt.Errorf("failed to marshal pet: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put pet: %w", err)
	}

	return nil
}

func (s *DynamoDBStore) UpdatePet(ctx context.Context, id string, fields map[string]any) error {
	values, err := marshalFields(fields)
	if err != nil {
		return err
	}

	expr, err := buildUpdateExpression(values)
	if err != nil {
		return err
	}

	_, err = s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       petKey(id),
		UpdateExpression:          aws.String(expr.Expression),
		ExpressionAttributeNames:  expr.Names,
		ExpressionAttributeValues: expr.Values,
	})
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}

	return nil
}

func (s *DynamoDBStore) DeletePet(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       petKey(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}

	return nil
}

// EnsureTable creates the pets table when it does not exist and waits for it to become active
func EnsureTable(ctx context.Context, client TableClient, tableName string, maxWait time.Duration) error {
	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("failed to describe table %s: %w", tableName, err)
	}

	if _, err := client.CreateTable(ctx, CreateTableInput(tableName)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	return waiter.Wait(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	}, maxWait)
}
