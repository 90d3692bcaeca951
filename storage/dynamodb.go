package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/rbinhq/rbin/models"
)

const dynamoTimeout = 10 * time.Second

// DynamoStore implements PasteStore using DynamoDB.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
}

// NewDynamoStore creates a new DynamoDB storage backend.
func NewDynamoStore(tableName, region string) (*DynamoStore, error) {
	if tableName == "" {
		return nil, fmt.Errorf("dynamodb table name must not be empty")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &DynamoStore{
		client:    dynamodb.NewFromConfig(cfg),
		tableName: tableName,
	}, nil
}

// Put writes the item with a condition that the id does not exist yet.
func (d *DynamoStore) Put(ctx context.Context, id string, content []byte) error {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	item := map[string]types.AttributeValue{
		"id":         &types.AttributeValueMemberS{Value: id},
		"content":    &types.AttributeValueMemberB{Value: content},
		"size":       &types.AttributeValueMemberN{Value: strconv.Itoa(len(content))},
		"created_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(time.Now().Unix(), 10)},
	}

	_, err := d.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return models.ErrAlreadyExists
		}
		return fmt.Errorf("put paste %s: %w", id, err)
	}
	return nil
}

// Get retrieves the content attribute of the item with the given id.
func (d *DynamoStore) Get(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get paste %s: %w", id, err)
	}
	if result.Item == nil {
		return nil, models.ErrNotFound
	}

	content, ok := result.Item["content"].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("paste %s has no content attribute", id)
	}
	return content.Value, nil
}

// Exists checks for the item without fetching the content.
func (d *DynamoStore) Exists(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	result, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ProjectionExpression: aws.String("id"),
	})
	if err != nil {
		return false, fmt.Errorf("get paste %s: %w", id, err)
	}
	return result.Item != nil, nil
}

// Delete removes the item; deleting an absent id succeeds.
func (d *DynamoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, dynamoTimeout)
	defer cancel()

	_, err := d.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("delete paste %s: %w", id, err)
	}
	return nil
}

// Close is a no-op for the DynamoDB backend.
func (d *DynamoStore) Close() error {
	return nil
}
