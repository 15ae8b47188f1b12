package odoo

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	statuses  map[string]int
	durations int
}

func (o *recordingObserver) IncrementRPCRequests(method, status string) {
	if o.statuses == nil {
		o.statuses = map[string]int{}
	}
	o.statuses[method+"/"+status]++
}

func (o *recordingObserver) RecordRPCDuration(_ time.Time, _ string) {
	o.durations++
}

func TestObserver_RecordsCallOutcomes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		call := decodeCall(t, r)
		switch call.Method {
		case "authenticate":
			writeResult(w, 7)
		case "execute_kw":
			writeRPCError(w, "Invalid field", "unknown field on model")
		default:
			writeResult(w, nil)
		}
	})

	obs := &recordingObserver{}
	client.SetObserver(obs)

	_, err := client.SearchCount(context.Background(), "res.partner", nil)
	require.Error(t, err)

	assert.Equal(t, 1, obs.statuses["authenticate/ok"])
	assert.Equal(t, 1, obs.statuses["execute_kw/api_error"])
	assert.Equal(t, 2, obs.durations, "every call records a duration, failed or not")
}

func TestObserver_NilObserverIsSafe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, 7)
	})

	_, err := client.Authenticate(context.Background())
	require.NoError(t, err)
}
