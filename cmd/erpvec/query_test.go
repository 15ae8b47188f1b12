package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpvec/erpvec/v1/query"
)

func TestParseAggregations(t *testing.T) {
	aggs, err := parseAggregations([]string{"sum:balance", "count", "avg:quantity:avg_qty"})
	require.NoError(t, err)
	require.Len(t, aggs, 3)

	assert.Equal(t, query.Aggregation{Op: query.AggSum, Field: "balance", Alias: "sum_balance"}, aggs[0])
	assert.Equal(t, query.Aggregation{Op: query.AggCount, Alias: "count"}, aggs[1])
	assert.Equal(t, query.Aggregation{Op: query.AggAvg, Field: "quantity", Alias: "avg_qty"}, aggs[2])
}

func TestParseAggregations_MissingField(t *testing.T) {
	_, err := parseAggregations([]string{"sum"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a field")
}
