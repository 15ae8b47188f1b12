package odoo

import "fmt"

// ErrorKind classifies where in the call path a query failed, so callers
// can tell a credentials problem from a network one without string
// matching.
type ErrorKind string

const (
	KindConfiguration  ErrorKind = "configuration"
	KindConnection     ErrorKind = "connection"
	KindResponse       ErrorKind = "response"
	KindAPI            ErrorKind = "api_error"
	KindAuthentication ErrorKind = "authentication"
	KindSecurity       ErrorKind = "security"
)

// QueryError carries a classified failure plus operator-facing diagnostic
// lines: a checklist of the usual causes for that kind of failure.
type QueryError struct {
	Kind        ErrorKind
	Message     string
	Diagnostics []string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("odoo: %s: %s", e.Kind, e.Message)
}
