// Package metrics holds the Prometheus collectors of the federation service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "federation"

// Metrics groups the collectors recorded by the services
type Metrics struct {
	membersCreated      prometheus.Counter
	cardNumberRetries   prometheus.Counter
	cardsPrinted        prometheus.Counter
	mandateTransitions  *prometheus.CounterVec
	archivedMemberships *prometheus.CounterVec
	singularReplaced    prometheus.Counter
	historyRowsPurged   *prometheus.CounterVec
}

// New registers the collectors on registry
func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		membersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "members_created_total",
			Help:      "Members created with a generated card number",
		}),
		cardNumberRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "card_number_retries_total",
			Help:      "Member creations retried after a card number collision",
		}),
		cardsPrinted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_printed_total",
			Help:      "Cards marked as printed for the first time",
		}),
		mandateTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mandate_endings_total",
			Help:      "Mandates archived, by operation",
		}, []string{"operation"}),
		archivedMemberships: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "memberships_archived_total",
			Help:      "Bureau and committee memberships archived by a mandate ending",
		}, []string{"kind"}),
		singularReplaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singular_holders_replaced_total",
			Help:      "Current holders of a singular function archived by a new assignment",
		}),
		historyRowsPurged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_rows_purged_total",
			Help:      "Archived rows deleted from the mandate history, by kind",
		}, []string{"kind"}),
	}
}

// MemberCreated counts a registered member
func (m *Metrics) MemberCreated() {
	if m == nil {
		return
	}
	m.membersCreated.Inc()
}

// CardNumberRetry counts a card number allocation retried after a collision
func (m *Metrics) CardNumberRetry() {
	if m == nil {
		return
	}
	m.cardNumberRetries.Inc()
}

// CardPrinted counts a card marked printed for the first time
func (m *Metrics) CardPrinted() {
	if m == nil {
		return
	}
	m.cardsPrinted.Inc()
}

// MandateEnded records an archived mandate and the memberships archived with it
func (m *Metrics) MandateEnded(operation string, bureau, committee int64) {
	if m == nil {
		return
	}
	m.mandateTransitions.WithLabelValues(operation).Inc()
	m.archivedMemberships.WithLabelValues("bureau").Add(float64(bureau))
	m.archivedMemberships.WithLabelValues("committee").Add(float64(committee))
}

// SingularHolderReplaced records seats demoted when a singular function changes hands
func (m *Metrics) SingularHolderReplaced(n int64) {
	if m == nil {
		return
	}
	m.singularReplaced.Add(float64(n))
}

// HistoryPurged records deleted history rows
func (m *Metrics) HistoryPurged(mandates, bureau, committee int64) {
	if m == nil {
		return
	}
	m.historyRowsPurged.WithLabelValues("mandate").Add(float64(mandates))
	m.historyRowsPurged.WithLabelValues("bureau").Add(float64(bureau))
	m.historyRowsPurged.WithLabelValues("committee").Add(float64(committee))
}
