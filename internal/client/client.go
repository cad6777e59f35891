package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notepad/internal/logging"
	"notepad/internal/types"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 8 << 20
	requestIDHeader  = "X-Request-ID"
)

// Client talks to the notes service over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout, Transport: c.http.Transport}
		}
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) ListNotes(ctx context.Context) ([]types.Note, error) {
	body, err := c.do(ctx, http.MethodGet, "/notes", nil)
	if err != nil {
		return nil, err
	}
	notes, problems := decodeNoteList(body)
	for _, problem := range problems {
		c.logger.Warn("list response shape", logging.F("problem", problem))
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, fields types.NoteFields) (types.Note, error) {
	body, err := c.do(ctx, http.MethodPost, "/notes", fields)
	if err != nil {
		return types.Note{}, err
	}
	return decodeNote(body)
}

func (c *Client) UpdateNote(ctx context.Context, id types.NoteID, fields types.NoteFields) (types.Note, error) {
	if id.IsZero() {
		return types.Note{}, errors.New("note id is required")
	}
	body, err := c.do(ctx, http.MethodPut, notePath(id), fields)
	if err != nil {
		return types.Note{}, err
	}
	return decodeNote(body)
}

func (c *Client) DeleteNote(ctx context.Context, id types.NoteID) error {
	if id.IsZero() {
		return errors.New("note id is required")
	}
	_, err := c.do(ctx, http.MethodDelete, notePath(id), nil)
	return err
}

func notePath(id types.NoteID) string {
	return "/notes/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := logging.NewRequestID()
	req.Header.Set(requestIDHeader, requestID)

	logger := c.logger.With(
		logging.F("request_id", requestID),
		logging.F("method", method),
		logging.F("path", path),
	)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("request failed", logging.Err(err))
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	logger.Debug("request done",
		logging.F("status", resp.StatusCode),
		logging.F("duration", time.Since(start)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp)
	}
	if method == http.MethodDelete {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	if len(data) > maxResponseBytes {
		logger.Warn("response too large", logging.F("limit", maxResponseBytes))
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("response exceeds %d MiB", maxResponseBytes>>20)}
	}
	return data, nil
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	var payload errorPayload
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Message = strings.TrimSpace(payload.Error)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
	}
	return apiErr
}

// APIError is a non-2xx response from the notes service.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	status := strings.TrimSpace(e.Status)
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Message == "" {
		return "service returned " + strings.TrimSpace(status)
	}
	return fmt.Sprintf("service returned %s: %s", strings.TrimSpace(status), e.Message)
}

// TransportError covers failures to reach the service or read its reply.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return "transport failure"
	}
	return "transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// MalformedResponseError is a 2xx reply whose body does not have the shape
// the contract promises.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason == "" {
		return "malformed response"
	}
	return "malformed response: " + e.Reason
}

const (
	FailureClassTransport = "transport"
	FailureClassService   = "service"
	FailureClassMalformed = "malformed"
)

// FailureClass names which part of the error taxonomy err belongs to, or ""
// for errors that did not come from this package.
func FailureClass(err error) string {
	switch {
	case err == nil:
		return ""
	case AsAPIError(err) != nil:
		return FailureClassService
	case IsTransportError(err):
		return FailureClassTransport
	case IsMalformedResponse(err):
		return FailureClassMalformed
	default:
		return ""
	}
}

func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

func IsMalformedResponse(err error) bool {
	var malformed *MalformedResponseError
	return errors.As(err, &malformed)
}
