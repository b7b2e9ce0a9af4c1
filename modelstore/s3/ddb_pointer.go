package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/vecclust/modelstore"
)

var _ modelstore.Pointer = (*DDBPointer)(nil)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// DDBPointer implements modelstore.Pointer on DynamoDB.
//
// Every commit is a new item; conditional writes make a version committable
// only once, which gives S3 the compare-and-swap it lacks.
//
// Table schema:
//   - Partition key: model (string) - base URI plus model name
//   - Sort key: version (number)
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name vecclust-models \
//	  --attribute-definitions AttributeName=model,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=model,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBPointer struct {
	client    DDBClient
	tableName string
	baseURI   string
}

// NewDDBPointer creates a DynamoDB pointer. baseURI, typically
// "s3://bucket/prefix/", namespaces model names sharing one table.
func NewDDBPointer(client DDBClient, tableName, baseURI string) *DDBPointer {
	return &DDBPointer{
		client:    client,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

func (p *DDBPointer) partition(name string) string {
	return p.baseURI + name
}

// Latest implements modelstore.Pointer.
func (p *DDBPointer) Latest(ctx context.Context, name string) (uint64, string, error) {
	resp, err := p.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(p.tableName),
		KeyConditionExpression: aws.String("#m = :model"),
		ExpressionAttributeNames: map[string]string{
			"#m": "model",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":model": &types.AttributeValueMemberS{Value: p.partition(name)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	keyAttr, ok := item["blob_key"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid blob_key attribute in DynamoDB")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}
	return version, keyAttr.Value, nil
}

// Commit implements modelstore.Pointer.
func (p *DDBPointer) Commit(ctx context.Context, name string, version uint64, key string) error {
	_, err := p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(p.tableName),
		Item: map[string]types.AttributeValue{
			"model":    &types.AttributeValueMemberS{Value: p.partition(name)},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"blob_key": &types.AttributeValueMemberS{Value: key},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return modelstore.ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}
	return nil
}
