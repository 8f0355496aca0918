package scheduleclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline-io/busline-backend/pkg/config"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/types"
)

func newTestClient(t *testing.T, handler http.Handler, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(config.ScheduleConfig{BaseURL: srv.URL, RequestTimeout: timeout})
	require.NoError(t, err)
	return client
}

func writeEnvelope(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestAllocateDecodesGrant(t *testing.T) {
	tripID := uuid.New()
	allocID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/trips/"+tripID.String()+"/allocate", r.URL.Path)

		var req struct {
			AllocationID uuid.UUID `json:"allocation_id"`
			Seats        int       `json:"seats"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, allocID, req.AllocationID)
		assert.Equal(t, 2, req.Seats)

		writeEnvelope(w, http.StatusOK, map[string]any{"data": map[string]any{
			"allocation_id":   allocID,
			"trip_id":         tripID,
			"seats":           2,
			"seats_remaining": 38,
		}})
	})

	client := newTestClient(t, handler, time.Second)
	grant, err := client.Allocate(context.Background(), tripID, allocID, 2)
	require.NoError(t, err)
	assert.Equal(t, allocID, grant.AllocationID)
	assert.Equal(t, 38, grant.SeatsRemaining)
}

func TestAllocateMapsCapacityDenial(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, types.ErrorEnvelope{Error: types.APIError{
			Code:    string(pkgerrors.CodeCapacity),
			Message: "not enough seats available",
		}})
	})

	client := newTestClient(t, handler, time.Second)
	_, err := client.Allocate(context.Background(), uuid.New(), uuid.New(), 5)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeCapacity))
	assert.False(t, pkgerrors.IsRetryable(err))
}

func TestTimeoutBecomesDependencyUnavailable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	client := newTestClient(t, handler, 20*time.Millisecond)
	_, err := client.Allocate(context.Background(), uuid.New(), uuid.New(), 1)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	assert.True(t, pkgerrors.IsRetryable(err))
}

func TestServerErrorBecomesDependencyUnavailable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	client := newTestClient(t, handler, time.Second)
	_, err := client.Availability(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestReleaseDecodesNoop(t *testing.T) {
	tripID := uuid.New()
	allocID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/trips/"+tripID.String()+"/release", r.URL.Path)
		writeEnvelope(w, http.StatusOK, map[string]any{"data": map[string]any{
			"allocation_id": allocID,
			"released":      false,
		}})
	})

	client := newTestClient(t, handler, time.Second)
	result, err := client.Release(context.Background(), tripID, allocID)
	require.NoError(t, err)
	assert.False(t, result.Released)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(config.ScheduleConfig{})
	assert.Error(t, err)
}
