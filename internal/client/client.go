package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"kniga/internal/catalog"
	"kniga/internal/config"
)

// TransportError is any failure of the listing or genre collaborator:
// network, timeout, upstream error envelope, or a payload that does not
// match the catalog contract.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("catalog %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// Structured error envelope of the catalog API
type errorEnvelope struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client is the HTTP implementation of the listing and genre collaborator
// contracts. It rate-limits outgoing calls and de-duplicates concurrent
// fetches of the same query, so the controller can fire state changes
// freely.
type Client struct {
	cfg       config.CatalogConfig
	client    *http.Client
	logger    *logrus.Logger
	limiter   *rate.Limiter
	sanitizer *bluemonday.Policy

	mu       sync.Mutex
	inflight map[catalog.Query]*call
}

// call is one shared in-flight listing request.
type call struct {
	done chan struct{}
	res  *catalog.ListResult
	err  error
}

func New(cfg config.CatalogConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg:       cfg,
		client:    newHTTPClient(cfg),
		logger:    logger,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		sanitizer: bluemonday.StrictPolicy(),
		inflight:  make(map[catalog.Query]*call),
	}
}

func newHTTPClient(cfg config.CatalogConfig) *http.Client {
	t := &http.Transport{
		MaxIdleConns:       100,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
		ForceAttemptHTTP2:  true,
	}
	return &http.Client{Transport: t, Timeout: cfg.Timeout}
}

// Wire shapes of the catalog API
type listResp struct {
	Items      []catalog.Book `json:"items"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// List fetches one page of books. Identical queries already in flight are
// joined instead of repeated: the query value is the key, so this only
// works because catalog.Query is comparable.
func (c *Client) List(ctx context.Context, q catalog.Query) (*catalog.ListResult, error) {
	c.mu.Lock()
	if inFlight, ok := c.inflight[q]; ok {
		c.mu.Unlock()
		select {
		case <-inFlight.done:
			return inFlight.res, inFlight.err
		case <-ctx.Done():
			return nil, &TransportError{Op: "list", Err: ctx.Err()}
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[q] = cl
	c.mu.Unlock()

	cl.res, cl.err = c.doList(ctx, q)
	close(cl.done)

	c.mu.Lock()
	delete(c.inflight, q)
	c.mu.Unlock()

	return cl.res, cl.err
}

func (c *Client) doList(ctx context.Context, q catalog.Query) (*catalog.ListResult, error) {
	params := q.Values()
	if c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.WithFields(logrus.Fields{
			"params": params.Encode(),
		}).Debug("catalog.request")
	}

	data, err := c.get(ctx, "list", "/books?"+params.Encode())
	if err != nil {
		return nil, err
	}

	if c.cfg.ValidateResponses {
		if err := validateListPayload(data); err != nil {
			return nil, &TransportError{Op: "list", Err: err}
		}
	}

	var r listResp
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, &TransportError{Op: "list", Err: fmt.Errorf("decode payload: %w", err)}
	}

	res := &catalog.ListResult{
		Items:      make([]catalog.Book, 0, len(r.Items)), // ensure [] not nil
		Total:      r.Total,
		TotalPages: r.TotalPages,
	}
	for _, b := range r.Items {
		// Описания приходят с HTML-разметкой, терминалу нужен чистый текст
		b.Description = c.sanitizer.Sanitize(b.Description)
		res.Items = append(res.Items, b)
	}
	return res, nil
}

// ListAllGenres fetches the whole genre directory.
func (c *Client) ListAllGenres(ctx context.Context) ([]catalog.Genre, error) {
	data, err := c.get(ctx, "genres", "/genres")
	if err != nil {
		return nil, err
	}
	var genres []catalog.Genre
	if err := json.Unmarshal(data, &genres); err != nil {
		return nil, &TransportError{Op: "genres", Err: fmt.Errorf("decode payload: %w", err)}
	}
	return genres, nil
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL+path, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("upstream do: %w", err)}
	}
	defer res.Body.Close()

	data, _ := io.ReadAll(res.Body)

	if c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.WithFields(logrus.Fields{
			"op":            op,
			"status":        res.StatusCode,
			"response_body": string(data),
		}).Debug("catalog.response")
	}

	if res.StatusCode >= 300 {
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil && env.Error.Message != "" {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("upstream %s: %s", env.Error.Code, env.Error.Message)}
		}
		return nil, &TransportError{Op: op, Err: fmt.Errorf("upstream status %d", res.StatusCode)}
	}
	return data, nil
}
