package telemetry

import "fmt"

// API is an abstraction over logging/metrics for the ingestion components,
// so tests can assert on what got reported.
type API interface {
	// ReportBroken reports a component that failed in a way that should be addressed.
	ReportBroken(id string, params ...any)

	// ReportWarning reports a scenario that is not necessarily broken but may warrant a look.
	ReportWarning(id string, params ...any)

	// ReportDebug reports diagnostic detail, visible only at debug level.
	ReportDebug(id string, params ...any)

	// ReportCount reports the count of an event at the current time; counts are
	// points over time, not values to be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every report id with a namespace, like a sub-logger.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(fmt.Sprintf("%s:%s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(fmt.Sprintf("%s:%s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportDebug(id string, params ...any) {
	s.inner.ReportDebug(fmt.Sprintf("%s:%s", s.namespace, id), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(fmt.Sprintf("%s:%s", s.namespace, id), count)
}
