// Package scheduleclient is the reservation authority's REST client for the
// schedule authority. Every call carries a bounded timeout; transport
// failures and 5xx answers surface as DEPENDENCY_UNAVAILABLE so the caller
// can decide between retrying and flagging reconciliation.
package scheduleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/busline-io/busline-backend/internal/seatledger"
	"github.com/busline-io/busline-backend/pkg/config"
	pkgerrors "github.com/busline-io/busline-backend/pkg/errors"
	"github.com/busline-io/busline-backend/pkg/types"
)

// ScheduleAPI is the slice of the schedule authority the orchestrator needs.
type ScheduleAPI interface {
	Allocate(ctx context.Context, tripID uuid.UUID, allocationID uuid.UUID, seats int) (*seatledger.Grant, error)
	Release(ctx context.Context, tripID uuid.UUID, allocationID uuid.UUID) (*seatledger.ReleaseResult, error)
	Availability(ctx context.Context, tripID uuid.UUID) (*seatledger.Availability, error)
	Ping(ctx context.Context) error
}

type Client struct {
	baseURL string
	http    *http.Client
}

var errBaseURLRequired = errors.New("schedule api base url is required")

// New builds a schedule authority client from config.
func New(cfg config.ScheduleConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
	}, nil
}

type allocateRequest struct {
	AllocationID uuid.UUID `json:"allocation_id"`
	Seats        int       `json:"seats"`
}

type releaseRequest struct {
	AllocationID uuid.UUID `json:"allocation_id"`
}

func (c *Client) Allocate(ctx context.Context, tripID uuid.UUID, allocationID uuid.UUID, seats int) (*seatledger.Grant, error) {
	var grant seatledger.Grant
	path := fmt.Sprintf("/api/v1/trips/%s/allocate", tripID)
	err := c.do(ctx, http.MethodPost, path, allocateRequest{AllocationID: allocationID, Seats: seats}, &grant)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

func (c *Client) Release(ctx context.Context, tripID uuid.UUID, allocationID uuid.UUID) (*seatledger.ReleaseResult, error) {
	var result seatledger.ReleaseResult
	path := fmt.Sprintf("/api/v1/trips/%s/release", tripID)
	err := c.do(ctx, http.MethodPost, path, releaseRequest{AllocationID: allocationID}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Availability(ctx context.Context, tripID uuid.UUID) (*seatledger.Availability, error) {
	var avail seatledger.Availability
	path := fmt.Sprintf("/api/v1/trips/%s/availability", tripID)
	if err := c.do(ctx, http.MethodGet, path, nil, &avail); err != nil {
		return nil, err
	}
	return &avail, nil
}

// Ping checks the schedule authority's liveness endpoint for readiness probes.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health/live", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// covers timeouts, refused connections, DNS failures
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "schedule authority call")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response body")
		}
		if err := json.Unmarshal(raw, &dataEnvelope{Data: out}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response body")
		}
		return nil
	}

	return c.decodeError(resp)
}

// dataEnvelope decodes the success envelope straight into the caller's type.
type dataEnvelope struct {
	Data any `json:"data"`
}

// decodeError turns the peer's error envelope back into a typed error. 5xx
// answers and unreadable bodies collapse to DEPENDENCY_UNAVAILABLE.
func (c *Client) decodeError(resp *http.Response) error {
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("schedule authority returned status %d", resp.StatusCode))
	}

	code, known := pkgerrors.CodeFromString(envelope.Error.Code)
	if !known || resp.StatusCode >= http.StatusInternalServerError {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("schedule authority returned %s (status %d)", envelope.Error.Code, resp.StatusCode))
	}

	err := pkgerrors.New(code, envelope.Error.Message)
	if envelope.Error.Details != nil {
		err = err.WithDetails(envelope.Error.Details)
	}
	return err
}
