package eventbus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewFlaggedEvent(t *testing.T) {
	flaggedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	evt, err := NewReviewFlaggedEvent("review-scoring", ReviewFlaggedData{
		ReviewID:   "r-1",
		SellerID:   "s-1",
		Confidence: 0.91,
		RiskScore:  91,
		Patterns:   []string{"bot"},
		FlaggedAt:  flaggedAt,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "review-scoring", evt.Source)
	assert.True(t, IsReviewFlagged(evt))
	assert.False(t, IsSellerRiskAssessed(evt))

	var data ReviewFlaggedData
	require.NoError(t, json.Unmarshal(evt.Data, &data))
	assert.Equal(t, "r-1", data.ReviewID)
	assert.Equal(t, []string{"bot"}, data.Patterns)
	assert.True(t, flaggedAt.Equal(data.FlaggedAt))
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a, err := NewSellerRiskAssessedEvent("review-scoring", SellerRiskAssessedData{SellerID: "s-1"})
	require.NoError(t, err)
	b, err := NewSellerRiskAssessedEvent("review-scoring", SellerRiskAssessedData{SellerID: "s-1"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, IsSellerRiskAssessed(a))
}

func TestNewEvent_UnmarshalableData(t *testing.T) {
	_, err := NewEvent("bad", "test", map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
