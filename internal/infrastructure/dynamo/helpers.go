package dynamo

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/budget-bot/internal/domain"
)

// strKey builds a DynamoDB primary key map with a single string attribute.
func strKey(name, value string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		name: &types.AttributeValueMemberS{Value: value},
	}
}

// listCursor is the decoded form of an opaque continuation token. It carries
// the full LastEvaluatedKey of a username-timestamp-index query: the table
// key plus both index keys.
type listCursor struct {
	MessageID string `json:"m"`
	Username  string `json:"u"`
	Timestamp string `json:"t"`
}

func encodeCursor(key map[string]types.AttributeValue) string {
	c := listCursor{}
	if v, ok := key["message_id"].(*types.AttributeValueMemberS); ok {
		c.MessageID = v.Value
	}
	if v, ok := key["username"].(*types.AttributeValueMemberS); ok {
		c.Username = v.Value
	}
	if v, ok := key["timestamp"].(*types.AttributeValueMemberS); ok {
		c.Timestamp = v.Value
	}
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(cursor string) (map[string]types.AttributeValue, error) {
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
	}
	var c listCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
	}
	if c.MessageID == "" || c.Username == "" || c.Timestamp == "" {
		return nil, fmt.Errorf("invalid cursor: %w", domain.ErrBadRequest)
	}
	return map[string]types.AttributeValue{
		"message_id": &types.AttributeValueMemberS{Value: c.MessageID},
		"username":   &types.AttributeValueMemberS{Value: c.Username},
		"timestamp":  &types.AttributeValueMemberS{Value: c.Timestamp},
	}, nil
}
