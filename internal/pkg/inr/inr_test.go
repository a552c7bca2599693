package inr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"spent 500 on dinner", 500},
		{"paid 1,200 for groceries", 1200},
		{"5k for a new chair", 5000},
		{"2 thousand on books", 2000},
		{"1.5L for laptop", 150000},
		{"bought land for 2 lakhs", 200000},
		{"1Cr apartment", 10000000},
		{"taxi 300.50", 300.5},
	}
	for _, tt := range tests {
		got, ok := ExtractAmount(tt.text)
		assert.True(t, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestExtractAmount_NoAmount(t *testing.T) {
	_, ok := ExtractAmount("show my expenses")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "2,000", Format(2000))
	assert.Equal(t, "1,234.5", Format(1234.5))
	assert.Equal(t, "300.75", Format(300.75))
	assert.Equal(t, "1,500,000", Format(1500000))
	assert.Equal(t, "-2,500", Format(-2500))
}
