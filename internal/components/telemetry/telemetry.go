package telemetry

// API is what every scraper and service reports through. Tests swap in a recorder to assert
// that failures surface, the CLI plugs in SlogAPI.
//
// note: fault injection point
type API interface {
	// ReportBroken flags a component that failed in a way someone has to look at.
	//
	// The id names the component and the operation, e.g. `client.fetch-member`. Package scope is
	// added by ScopedAPI so it is left out of the id. Details go into params, an error wrapped
	// with fmt.Errorf is usually enough.
	//
	// Ids are lowercase, underscores separate words of a component, dashes separate words of an
	// operation.
	ReportBroken(id string, params ...any)

	// ReportWarning flags something odd that did not stop the operation, like a record that
	// was skipped. Ids follow ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug is for tracing requests and cache hits while developing.
	ReportDebug(msg string, params ...any)

	// ReportCount records how many items an operation produced. Counts are samples, not
	// running totals.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace, normally the name of the reporting package.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return s.namespace + "." + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}

// NoopAPI discards every report. Library constructors fall back to it so nothing is
// logged unless the caller asks for it.
type NoopAPI struct{}

func (NoopAPI) ReportBroken(string, ...any)  {}
func (NoopAPI) ReportWarning(string, ...any) {}
func (NoopAPI) ReportDebug(string, ...any)   {}
func (NoopAPI) ReportCount(string, int64)    {}

// OrNoop returns tel, or NoopAPI when tel is nil.
func OrNoop(tel API) API {
	if tel == nil {
		return NoopAPI{}
	}
	return tel
}
