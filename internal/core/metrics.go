package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// RecordDispatch counts which way a credential check was routed:
	// local, ldap, ambiguous, lookup_error or rejected.
	RecordDispatch(route string)

	RecordAuthAttempt(provider string, success bool, duration time.Duration)
	RecordTokenValidation(result string, duration time.Duration)
	RecordLogin(provider string, success bool)
	RecordLogout()

	RecordDatabaseQueryError(operation string)
}
