package addr

import "fmt"

// EncodingError reports an identity component that exceeds its address
// segment's capacity. Fatal for the record being encoded, never silently
// truncated.
type EncodingError struct {
	Component string
	Value     int64
	Max       int64
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("addr: %s %d exceeds segment capacity %d", e.Component, e.Value, e.Max)
}

// DecodingError reports a malformed stored identifier. A structural
// integrity issue in the store, distinct from a missing-target orphan.
type DecodingError struct {
	ID     string
	Reason string
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("addr: cannot decode %q: %s", e.ID, e.Reason)
}
