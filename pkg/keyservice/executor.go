package keyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/systmms/keysvc/internal/logging"
)

// maxResponseBody caps how much of a response the executor will read.
// Key model bodies are tiny; anything larger is not the expected server.
const maxResponseBody = 1 << 20

// executor performs the single POST exchange shared by all client
// operations: serialize parameters, send, classify the outcome. It holds
// no per-request state and is safe for concurrent use.
type executor struct {
	hc      *http.Client
	logger  *logging.Logger
	metrics *clientMetrics
}

// post issues one POST with a JSON body to u and decodes a 200 response
// into a KeyModel. There is no retry; every failure path returns a *Error
// classified exactly once.
func (x *executor) post(ctx context.Context, op string, u *url.URL, params map[string]string) (*KeyModel, error) {
	start := time.Now()
	model, kerr := x.roundTrip(ctx, op, u, params)

	// A typed nil *Error must not leak into the error interface.
	var err error
	if kerr != nil {
		err = kerr
	}
	x.metrics.observe(op, time.Since(start), err)

	if err != nil {
		x.logger.Debug("keyservice %s failed: %v", op, err)
		return nil, err
	}
	x.logger.Debug("keyservice %s succeeded in %s", op, time.Since(start).Round(time.Millisecond))
	return model, nil
}

func (x *executor) roundTrip(ctx context.Context, op string, u *url.URL, params map[string]string) (*KeyModel, *Error) {
	body, err := json.Marshal(params)
	if err != nil {
		// A string-to-string map always marshals; kept for completeness.
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Op: op, Kind: KindUnknown, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.hc.Do(req)
	if err != nil {
		return nil, classifyTransport(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		// Non-200 bodies carry no contract; drain for connection reuse.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil, classifyStatus(op, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, classifyTransport(op, err)
	}

	return decodeModel(op, raw)
}

// decodeModel interprets a 200 response body as a key model. A body that
// is not JSON, or that lacks the required fields, yields KindUnableToDecode
// rather than a partially populated model.
func decodeModel(op string, raw []byte) (*KeyModel, *Error) {
	var model KeyModel
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, &Error{Op: op, Kind: KindUnableToDecode, Err: err}
	}
	if model.KeyID == "" || model.Key == "" {
		return nil, &Error{
			Op:   op,
			Kind: KindUnableToDecode,
			Err:  fmt.Errorf("response body is not a key model"),
		}
	}
	model.Raw = raw
	return &model, nil
}
