package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/budget-bot/internal/domain"
)

const userTimestampIndex = "username-timestamp-index"

// dynamodbAPI is the minimal DynamoDB interface required by MessageRepo.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// MessageRepo provides typed DynamoDB operations for the ProcessedMessages table.
type MessageRepo struct {
	api       dynamodbAPI
	tableName string
}

func NewMessageRepo(api dynamodbAPI, tableName string) *MessageRepo {
	return &MessageRepo{api: api, tableName: tableName}
}

// RecordIfAbsent writes the record only if its message_id does not exist yet.
// The condition is evaluated atomically by DynamoDB, so of two concurrent
// calls racing on the same id exactly one observes inserted=true. A lost race
// is not an error: it returns (false, nil) and leaves the original record
// untouched.
func (r *MessageRepo) RecordIfAbsent(ctx context.Context, m *domain.ProcessedMessage) (bool, error) {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return false, fmt.Errorf("marshal message: %w", err)
	}
	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(message_id)"),
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return false, nil
		}
		return false, fmt.Errorf("record message: %w: %v", domain.ErrUnavailable, err)
	}
	return true, nil
}

// Put writes the record unconditionally, replacing any previous version.
// Used for pending-deletion records, where a new request supersedes the old.
func (r *MessageRepo) Put(ctx context.Context, m *domain.ProcessedMessage) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	_, err = r.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put message: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}

// Get is a consistent point lookup by message_id.
func (r *MessageRepo) Get(ctx context.Context, messageID string) (*domain.ProcessedMessage, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("message_id", messageID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get message: %w: %v", domain.ErrUnavailable, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("message %s: %w", messageID, domain.ErrNotFound)
	}
	var m domain.ProcessedMessage
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	return &m, nil
}

// ListByUser queries the username-timestamp-index for records in
// [from, to], ascending by timestamp. kind filters on record kind when
// non-empty. cursor is an opaque continuation token from a previous page;
// the returned cursor is empty when no more pages exist.
func (r *MessageRepo) ListByUser(ctx context.Context, username, from, to, kind string, limit int32, cursor string) ([]domain.ProcessedMessage, string, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(userTimestampIndex),
		KeyConditionExpression: aws.String("username = :u AND #ts BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#ts": "timestamp",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u":    &types.AttributeValueMemberS{Value: username},
			":from": &types.AttributeValueMemberS{Value: from},
			":to":   &types.AttributeValueMemberS{Value: to},
		},
		ScanIndexForward: aws.Bool(true),
	}
	if kind != "" {
		input.FilterExpression = aws.String("#kind = :k")
		input.ExpressionAttributeNames["#kind"] = "kind"
		input.ExpressionAttributeValues[":k"] = &types.AttributeValueMemberS{Value: kind}
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	if cursor != "" {
		startKey, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := r.api.Query(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("query messages: %w: %v", domain.ErrUnavailable, err)
	}
	var msgs []domain.ProcessedMessage
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &msgs); err != nil {
		return nil, "", fmt.Errorf("unmarshal messages: %w", err)
	}
	nextCursor := ""
	if len(out.LastEvaluatedKey) > 0 {
		nextCursor = encodeCursor(out.LastEvaluatedKey)
	}
	return msgs, nextCursor, nil
}

// Delete removes a record by message_id. Deletion is an explicit action
// (administrative, or the confirmed deletion flow), never part of ingestion.
func (r *MessageRepo) Delete(ctx context.Context, messageID string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("message_id", messageID),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w: %v", domain.ErrUnavailable, err)
	}
	return nil
}
