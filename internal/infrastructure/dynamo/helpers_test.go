package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/budget-bot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"message_id": &types.AttributeValueMemberS{Value: "EXP#alice#2026-08-15T00:00:00Z"},
		"username":   &types.AttributeValueMemberS{Value: "alice"},
		"timestamp":  &types.AttributeValueMemberS{Value: "2026-08-15T00:00:00Z"},
	}

	cursor := encodeCursor(key)
	require.NotEmpty(t, cursor)

	decoded, err := decodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, key, decoded)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, cursor := range []string{"%%%", "bm90LWpzb24", encodeCursor(nil)} {
		_, err := decodeCursor(cursor)
		assert.ErrorIs(t, err, domain.ErrBadRequest, "cursor %q", cursor)
	}
}
