// Package graphql talks to the form answer API: it loads form schemas with
// stored answers, submits answer batches, and uploads files.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/submission"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "http://127.0.0.1:8000/graphql"

var (
	// ErrMissingToken is returned by operations that require authentication.
	ErrMissingToken = errors.New("graphql: authentication token not available")
	// ErrRejected is returned when the API reports an unsuccessful save.
	ErrRejected = submission.ErrRejected
	// ErrEmptyResponse is returned when the response carries no data.
	ErrEmptyResponse = errors.New("graphql: empty response")
)

// ResponseError carries the errors array of a GraphQL response.
type ResponseError struct {
	Messages []string
}

func (e *ResponseError) Error() string {
	if len(e.Messages) == 0 {
		return "graphql: unknown error"
	}
	return "graphql: " + strings.Join(e.Messages, "; ")
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphql: unexpected status %d", e.Code)
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.Code }

// Option customises a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithUploadEndpoint sends file uploads to a different URL.
func WithUploadEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.uploadEndpoint = endpoint
		}
	}
}

// WithLocale sets the LANG header sent with uploads.
func WithLocale(locale string) Option {
	return func(c *Client) {
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client is a minimal GraphQL client for the form answer API.
type Client struct {
	endpoint       string
	uploadEndpoint string
	token          string
	locale         string
	http           *http.Client
	requestID      func() string
	logger         *slog.Logger
}

// NewClient builds a client for endpoint, or DefaultEndpoint when empty.
func NewClient(endpoint string, opts ...Option) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:  endpoint,
		locale:    "en",
		http:      &http.Client{Timeout: 30 * time.Second},
		requestID: uuid.NewString,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.uploadEndpoint == "" {
		c.uploadEndpoint = c.endpoint
	}
	return c
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Do executes query and decodes the data object into out.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("graphql: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graphql: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	id := c.requestID()
	req.Header.Set("X-Request-ID", id)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("X-Auth-Token", c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graphql: request %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("graphql: read response %s: %w", id, err)
	}
	c.logger.Debug("graphql request", "request_id", id, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("graphql: decode response %s: %w", id, err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return &ResponseError{Messages: msgs}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return ErrEmptyResponse
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("graphql: decode data %s: %w", id, err)
	}
	return nil
}

// FormRequest identifies the form to load.
type FormRequest struct {
	FormID   string
	EntityID string
	Preview  bool
}

// FetchForm loads a form and its stored answers. Options and questions are
// ordered by position.
func (c *Client) FetchForm(ctx context.Context, req FormRequest) (model.Form, error) {
	if strings.TrimSpace(req.FormID) == "" {
		return model.Form{}, fmt.Errorf("graphql: form id is required")
	}
	var data struct {
		Form *json.RawMessage `json:"getFormWithAnswers"`
	}
	vars := map[string]any{
		"form_id":   req.FormID,
		"entity_id": req.EntityID,
		"preview":   req.Preview,
	}
	if err := c.Do(ctx, QueryFormWithAnswers, vars, &data); err != nil {
		return model.Form{}, err
	}
	if data.Form == nil {
		return model.Form{}, fmt.Errorf("graphql: form %q: %w", req.FormID, ErrEmptyResponse)
	}
	return model.ParseForm(*data.Form, "graphql:"+req.FormID)
}

// SubmitBatch stores batch. An unsuccessful result is returned together with
// an error wrapping ErrRejected.
func (c *Client) SubmitBatch(ctx context.Context, batch submission.Batch) (submission.Result, error) {
	if c.token == "" {
		return submission.Result{}, ErrMissingToken
	}
	var data struct {
		Result *submission.Result `json:"addUpdateBulkFormAnswers"`
	}
	if err := c.Do(ctx, MutationBulkAnswers, map[string]any{"input": batch}, &data); err != nil {
		return submission.Result{}, err
	}
	if data.Result == nil {
		return submission.Result{}, ErrEmptyResponse
	}
	if !data.Result.Success {
		return *data.Result, fmt.Errorf("%w: %s", ErrRejected, data.Result.Message)
	}
	return *data.Result, nil
}

// UploadFile sends upload using the GraphQL multipart request convention and
// returns the stored file URL.
func (c *Client) UploadFile(ctx context.Context, upload answers.Upload) (string, error) {
	if c.token == "" {
		return "", ErrMissingToken
	}
	if upload.Name == "" {
		return "", fmt.Errorf("graphql: upload name is required")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	operations, err := json.Marshal(request{
		Query:     MutationUploadFile,
		Variables: map[string]any{"input": map[string]any{"file": nil}},
	})
	if err != nil {
		return "", fmt.Errorf("graphql: encode upload operations: %w", err)
	}
	if err := form.WriteField("operations", string(operations)); err != nil {
		return "", fmt.Errorf("graphql: write upload operations: %w", err)
	}
	if err := form.WriteField("map", `{"file":["variables.input.file"]}`); err != nil {
		return "", fmt.Errorf("graphql: write upload map: %w", err)
	}
	part, err := form.CreateFormFile("file", upload.Name)
	if err != nil {
		return "", fmt.Errorf("graphql: create upload part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return "", fmt.Errorf("graphql: write upload part: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("graphql: close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadEndpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("graphql: build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "*/*")
	req.Header.Set("LANG", c.locale)

	var data struct {
		URL string `json:"uploadFile"`
	}
	if err := c.send(req, &data); err != nil {
		return "", err
	}
	if data.URL == "" {
		return "", ErrEmptyResponse
	}
	return data.URL, nil
}
