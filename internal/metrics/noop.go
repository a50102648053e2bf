package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder.
// Used when metrics are disabled.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordDispatch(route string)                                     {}
func (n *NoopMetrics) RecordAuthAttempt(provider string, success bool, d time.Duration) {}
func (n *NoopMetrics) RecordTokenValidation(result string, duration time.Duration)      {}
func (n *NoopMetrics) RecordLogin(provider string, success bool)                        {}
func (n *NoopMetrics) RecordLogout()                                                    {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                        {}
