package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/sicko7947/petstore"
)

// tableWaitTimeout bounds how long Open waits for a freshly created local table
const tableWaitTimeout = time.Minute

// Open builds the PetStore selected by cfg. With an endpoint override
// (DynamoDB Local) the table is created on first use.
func Open(ctx context.Context, cfg petstore.Config) (petstore.PetStore, error) {
	switch cfg.Store {
	case petstore.StoreMemory:
		return NewMemoryStore(), nil
	case petstore.StoreDynamoDB:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	if cfg.Endpoint != "" {
		if err := EnsureTable(ctx, client, cfg.TableName, tableWaitTimeout); err != nil {
			return nil, err
		}
	}

	return NewDynamoDBStore(client, cfg.TableName), nil
}
