package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fizato/federation/internal/metrics"
)

func TestCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	m.MemberCreated()
	m.MemberCreated()
	m.CardNumberRetry()
	m.CardPrinted()
	m.SingularHolderReplaced(2)
	m.MandateEnded("transition", 3, 1)
	m.HistoryPurged(1, 3, 1)

	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	assert.Positive(t, count)

	families, err := registry.Gather()
	require.NoError(t, err)
	totals := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			totals[f.GetName()] += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, totals["federation_members_created_total"])
	assert.Equal(t, 1.0, totals["federation_card_number_retries_total"])
	assert.Equal(t, 1.0, totals["federation_cards_printed_total"])
	assert.Equal(t, 2.0, totals["federation_singular_holders_replaced_total"])
	assert.Equal(t, 1.0, totals["federation_mandate_endings_total"])
	assert.Equal(t, 4.0, totals["federation_memberships_archived_total"])
	assert.Equal(t, 5.0, totals["federation_history_rows_purged_total"])
}

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.MemberCreated()
		m.CardNumberRetry()
		m.CardPrinted()
		m.SingularHolderReplaced(1)
		m.MandateEnded("end", 1, 0)
		m.HistoryPurged(1, 0, 0)
	})
}
