package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "lunabeam"

var (
	// ClaimsIssuedTotal counts issued claims by whether the invitation was delivered.
	ClaimsIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_issued_total",
			Help:      "Total number of issued claims",
		},
		[]string{"delivery"},
	)

	// ClaimValidationsTotal counts validation lookups by result kind.
	ClaimValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_validations_total",
			Help:      "Total number of claim validations",
		},
		[]string{"result"},
	)

	// ClaimFinalizationsTotal counts finalize attempts by outcome code.
	ClaimFinalizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claim_finalizations_total",
			Help:      "Total number of claim finalization attempts",
		},
		[]string{"result"},
	)

	ClaimsRevokedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_revoked_total",
			Help:      "Total number of claims revoked before use",
		},
	)

	ClaimsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "claims_expired_total",
			Help:      "Total number of pending claims marked expired by the sweeper",
		},
	)
)

func claimCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		ClaimsIssuedTotal,
		ClaimValidationsTotal,
		ClaimFinalizationsTotal,
		ClaimsRevokedTotal,
		ClaimsExpiredTotal,
	}
}

func RecordClaimIssued(delivered bool) {
	label := "sent"
	if !delivered {
		label = "failed"
	}
	ClaimsIssuedTotal.WithLabelValues(label).Inc()
}

func RecordClaimValidation(result string) {
	ClaimValidationsTotal.WithLabelValues(result).Inc()
}

func RecordClaimFinalization(result string) {
	ClaimFinalizationsTotal.WithLabelValues(result).Inc()
}

func RecordClaimsRevoked(n int64) {
	ClaimsRevokedTotal.Add(float64(n))
}

func RecordClaimsExpired(n int64) {
	ClaimsExpiredTotal.Add(float64(n))
}
