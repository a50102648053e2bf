package metrics

import "time"

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

func (m *Metrics) RecordDispatch(route string) {
	m.AuthDispatchTotal.WithLabelValues(route).Inc()
}

func (m *Metrics) RecordAuthAttempt(provider string, success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthAttemptsTotal.WithLabelValues(provider, result).Inc()
	m.AuthAttemptDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTokenValidation records token validation; result is valid, invalid or expired
func (m *Metrics) RecordTokenValidation(result string, duration time.Duration) {
	m.TokenValidationTotal.WithLabelValues(result).Inc()
	m.TokenValidationDuration.Observe(duration.Seconds())
}

func (m *Metrics) RecordLogin(provider string, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthLoginTotal.WithLabelValues(provider, result).Inc()

	if success {
		m.SessionsCreatedTotal.Inc()
	}
}

func (m *Metrics) RecordLogout() {
	m.AuthLogoutTotal.Inc()
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
