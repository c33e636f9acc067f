package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/luca-patrignani/onirim/domain/onirim"
)

// Server endpoints
const (
	PathNewGame = "/api/newGame"
	PathBoard   = "/api/board"
	PathStatus  = "/api/status"
	PathPrompt  = "/api/prompt"
	PathChoice  = "/api/choice"
)

// SessionParam is the query parameter carrying the session identifier.
const SessionParam = "id"

// RequestIDHeader tags every outgoing request.
const RequestIDHeader = "X-Request-ID"

const tracerName = "github.com/luca-patrignani/onirim/network"

// ErrEmptySession is returned by NewGame when the server answers without an id.
var ErrEmptySession = errors.New("server returned an empty session id")

// StatusError is a non-2xx answer from the server.
// Body is the response body exactly as received.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded with status %d: %s", e.Code, e.Body)
}

// Client is a game server client. It is safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClient returns a Client for the server at serverURL.
func NewClient(serverURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", serverURL)
	}
	c := Client{
		baseURL:    u,
		httpClient: &http.Client{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		c = opt(c)
	}
	return &c, nil
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// NewGame asks the server for a new session.
func (c *Client) NewGame(ctx context.Context) (onirim.Session, error) {
	var s onirim.Session
	if err := c.getJSON(ctx, "newGame", PathNewGame, "", &s); err != nil {
		return onirim.Session{}, err
	}
	if s.ID == "" {
		return onirim.Session{}, ErrEmptySession
	}
	return s, nil
}

// Board fetches the board of the session.
func (c *Client) Board(ctx context.Context, sessionID string) (onirim.Board, error) {
	var b onirim.Board
	err := c.getJSON(ctx, "board", PathBoard, sessionID, &b)
	return b, err
}

// Status fetches the next status record of the session.
func (c *Client) Status(ctx context.Context, sessionID string) (onirim.Status, error) {
	var s onirim.Status
	err := c.getJSON(ctx, "status", PathStatus, sessionID, &s)
	return s, err
}

// Prompt fetches the current prompt of the session.
func (c *Client) Prompt(ctx context.Context, sessionID string) (onirim.Prompt, error) {
	var p onirim.Prompt
	err := c.getJSON(ctx, "prompt", PathPrompt, sessionID, &p)
	return p, err
}

// Choice submits a player decision. The response body is ignored on success.
func (c *Client) Choice(ctx context.Context, choice onirim.ChoiceRequest) error {
	body, err := json.Marshal(choice)
	if err != nil {
		return fmt.Errorf("failed to marshal choice: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(PathChoice, ""), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = c.do(ctx, "choice", req)
	return err
}

func (c *Client) getJSON(ctx context.Context, name, path, sessionID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, sessionID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	body, err := c.do(ctx, name, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", name, err)
	}
	return nil
}

// do sends req inside a client span and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, name string, req *http.Request) ([]byte, error) {
	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "onirim."+name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
			attribute.String("onirim.request_id", requestID),
		),
	)
	defer span.End()

	req = req.WithContext(ctx)
	req.Header.Set(RequestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to read %s response: %w", name, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := &StatusError{Code: resp.StatusCode, Body: string(body)}
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("server rejected request", "call", name, "status", resp.StatusCode, "request_id", requestID)
		return nil, err
	}
	c.logger.Debug("server call", "call", name, "status", resp.StatusCode, "request_id", requestID)
	return body, nil
}

func (c *Client) endpoint(path, sessionID string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if sessionID != "" {
		u.RawQuery = url.Values{SessionParam: []string{sessionID}}.Encode()
	}
	return u.String()
}
