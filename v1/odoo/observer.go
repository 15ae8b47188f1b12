package odoo

import "time"

// Observer receives call-level telemetry from the client. The metrics
// collector implements it; a nil observer disables instrumentation.
type Observer interface {
	IncrementRPCRequests(method, status string)
	RecordRPCDuration(start time.Time, method string)
}

// SetObserver attaches telemetry to the client. Attach before issuing
// calls; the client does not synchronize the field.
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

func (c *Client) observe(start time.Time, method, status string) {
	if c.observer == nil {
		return
	}
	c.observer.IncrementRPCRequests(method, status)
	c.observer.RecordRPCDuration(start, method)
}
