// backend-go/internal/domain/status_test.go
package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	st, ok := ParseOrderStatus("취소")
	require.True(t, ok)
	assert.Equal(t, StatusCancelled, st)

	st, ok = ParseOrderStatus("배송중")
	require.True(t, ok)
	assert.Equal(t, StatusShipping, st)

	st, ok = ParseOrderStatus("supplying")
	require.True(t, ok)
	assert.Equal(t, StatusSupplying, st)

	_, ok = ParseOrderStatus("알수없음")
	assert.False(t, ok)
}

func TestStatusPipelineOrder(t *testing.T) {
	assert.True(t, StatusShipping.AtOrPast(StatusSupplying))
	assert.True(t, StatusPODownloaded.AtOrPast(StatusPODownloaded))
	assert.False(t, StatusSupplying.AtOrPast(StatusDispatched))

	// Cancelled sits outside the forward pipeline.
	assert.Equal(t, -1, StatusCancelled.Rank())
	assert.False(t, StatusCancelled.AtOrPast(StatusSupplying))
	assert.False(t, StatusShipping.AtOrPast(StatusCancelled))
}
