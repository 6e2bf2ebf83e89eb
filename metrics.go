package authsvc

import "sync/atomic"

// MetricID indexes one engine counter.
type MetricID uint16

const (
	// MetricSignupSuccess counts accounts created.
	MetricSignupSuccess MetricID = iota
	// MetricSignupDuplicate counts signups rejected for an existing email.
	MetricSignupDuplicate
	// MetricLoginSuccess counts password checks that passed and issued a
	// passcode.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected password checks.
	MetricLoginFailure
	// MetricOTPIssued counts passcodes written, including resends.
	MetricOTPIssued
	// MetricOTPResent counts explicit resend requests that issued a code.
	MetricOTPResent
	// MetricOTPVerified counts passcodes consumed successfully.
	MetricOTPVerified
	// MetricOTPInvalid counts verify attempts rejected for a mismatched
	// code.
	MetricOTPInvalid
	// MetricOTPExpired counts verify attempts rejected for expiry.
	MetricOTPExpired
	// MetricSessionCreated counts sessions minted after full verification.
	MetricSessionCreated
	// MetricSessionDestroyed counts sessions removed by logout.
	MetricSessionDestroyed
	// MetricAccessAllowed counts successful protected-resource
	// authorizations.
	MetricAccessAllowed
	// MetricAccessDenied counts rejected protected-resource authorizations.
	MetricAccessDenied
	// MetricDeliveryFailure counts best-effort mail sends that failed.
	MetricDeliveryFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds the engine's counters. Increments are lock-free; Snapshot
// is a consistent-enough read for exposition (each counter is read
// atomically, the set is not).
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// NewMetrics returns an empty counter set. A disabled config makes every
// operation a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Get reads a single counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter into a fresh map. Disabled metrics yield
// an empty map, not zeroes, so exporters can skip exposition entirely.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricIDCount),
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return snap
}
