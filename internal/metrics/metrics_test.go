package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageLatencyZeroWithNoOrders(t *testing.T) {
	var e Engine
	assert.Equal(t, uint64(0), e.AverageLatencyNs())
}

func TestAverageLatencyComputesMean(t *testing.T) {
	var e Engine
	e.RecordSubmit(100)
	e.RecordSubmit(300)

	assert.Equal(t, uint64(2), e.OrdersProcessed())
	assert.Equal(t, uint64(400), e.TotalLatencyNs())
	assert.Equal(t, uint64(200), e.AverageLatencyNs())
}
