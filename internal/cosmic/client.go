// Package cosmic implements types.ObjectStore against the Cosmic v3 REST
// API. Every failure is returned as a *types.StoreError: HTTP 404 becomes
// NotFound, anything else becomes Other.
package cosmic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mesh-intelligence/folio/pkg/types"
)

const tracerName = "github.com/mesh-intelligence/folio/internal/cosmic"

// Client talks to one Cosmic bucket. The zero value is not usable; build
// one with New.
type Client struct {
	baseURL  string
	bucket   string
	readKey  string
	writeKey string
	client   *http.Client
	tracer   trace.Tracer
}

// New creates a client for the bucket described by cfg. A nil httpClient
// uses http.DefaultClient. Request deadlines come from the caller's context.
func New(cfg types.CosmicConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := cfg.APIURL
	if base == "" {
		base = types.DefaultCosmicAPIURL
	}
	return &Client{
		baseURL:  strings.TrimRight(base, "/"),
		bucket:   cfg.BucketSlug,
		readKey:  cfg.ReadKey,
		writeKey: cfg.WriteKey,
		client:   httpClient,
		tracer:   otel.Tracer(tracerName),
	}
}

// objectsResponse is the body of a find call.
type objectsResponse struct {
	Objects []types.Object `json:"objects"`
	Total   int            `json:"total"`
}

// objectResponse is the body of insert and update calls.
type objectResponse struct {
	Object types.Object `json:"object"`
}

// apiError is the error body the API returns alongside non-2xx statuses.
type apiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// statusError carries the HTTP status of a failed call.
type statusError struct {
	method  string
	path    string
	status  int
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return fmt.Sprintf("cosmic %s %s: %d %s", e.method, e.path, e.status, e.message)
	}
	return fmt.Sprintf("cosmic %s %s: %d", e.method, e.path, e.status)
}

func (c *Client) objectsURL(path string) string {
	return fmt.Sprintf("%s/buckets/%s/objects%s", c.baseURL, url.PathEscape(c.bucket), path)
}

// Find returns every object of q.Type.
func (c *Client) Find(ctx context.Context, q types.FindQuery) ([]types.Object, error) {
	ctx, span := c.tracer.Start(ctx, "cosmic.find", trace.WithAttributes(
		attribute.String("cosmic.type", q.Type),
		attribute.Int("cosmic.depth", q.Depth),
	))
	defer span.End()

	query, err := json.Marshal(map[string]string{"type": q.Type})
	if err != nil {
		return nil, c.fail(span, types.Other(err))
	}
	params := url.Values{}
	params.Set("query", string(query))
	if len(q.Props) > 0 {
		params.Set("props", strings.Join(q.Props, ","))
	}
	if q.Depth > 0 {
		params.Set("depth", strconv.Itoa(q.Depth))
	}
	if c.readKey != "" {
		params.Set("read_key", c.readKey)
	}

	var resp objectsResponse
	if err := c.do(ctx, http.MethodGet, c.objectsURL("?"+params.Encode()), nil, false, &resp); err != nil {
		return nil, c.fail(span, err)
	}
	span.SetAttributes(attribute.Int("cosmic.count", len(resp.Objects)))
	glog.V(2).Infof("[cosmic] find %s -> %d objects", q.Type, len(resp.Objects))
	return resp.Objects, nil
}

// InsertOne creates an object.
func (c *Client) InsertOne(ctx context.Context, req types.InsertRequest) (types.Object, error) {
	ctx, span := c.tracer.Start(ctx, "cosmic.insertOne", trace.WithAttributes(
		attribute.String("cosmic.type", req.Type),
	))
	defer span.End()

	var resp objectResponse
	if err := c.do(ctx, http.MethodPost, c.objectsURL(""), req, true, &resp); err != nil {
		return types.Object{}, c.fail(span, err)
	}
	span.SetAttributes(attribute.String("cosmic.id", resp.Object.ID))
	glog.V(2).Infof("[cosmic] insert %s -> %s", req.Type, resp.Object.ID)
	return resp.Object, nil
}

// UpdateOne replaces the metadata of the object with the given id.
func (c *Client) UpdateOne(ctx context.Context, id string, metadata map[string]any) error {
	ctx, span := c.tracer.Start(ctx, "cosmic.updateOne", trace.WithAttributes(
		attribute.String("cosmic.id", id),
	))
	defer span.End()

	if id == "" {
		return c.fail(span, types.Other(types.ErrInvalidID))
	}
	body := map[string]any{"metadata": metadata}
	if err := c.do(ctx, http.MethodPatch, c.objectsURL("/"+url.PathEscape(id)), body, true, nil); err != nil {
		return c.fail(span, err)
	}
	glog.V(2).Infof("[cosmic] update %s", id)
	return nil
}

// DeleteOne removes the object with the given id.
func (c *Client) DeleteOne(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "cosmic.deleteOne", trace.WithAttributes(
		attribute.String("cosmic.id", id),
	))
	defer span.End()

	if id == "" {
		return c.fail(span, types.Other(types.ErrInvalidID))
	}
	if err := c.do(ctx, http.MethodDelete, c.objectsURL("/"+url.PathEscape(id)), nil, true, nil); err != nil {
		return c.fail(span, err)
	}
	glog.V(2).Infof("[cosmic] delete %s", id)
	return nil
}

func (c *Client) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// do issues one request and decodes a JSON response into out when out is
// non-nil. The returned error is always a *types.StoreError.
func (c *Client) do(ctx context.Context, method, rawURL string, body any, write bool, out any) error {
	if write && c.writeKey == "" {
		return types.Other(types.ErrNoWriteKey)
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return types.Other(fmt.Errorf("encode request: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return types.Other(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if write {
		req.Header.Set("Authorization", "Bearer "+c.writeKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Other(fmt.Errorf("cosmic %s: %w", method, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Other(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 300 {
		se := &statusError{method: method, path: req.URL.Path, status: resp.StatusCode}
		var ae apiError
		if json.Unmarshal(respBody, &ae) == nil {
			se.message = ae.Message
		}
		if resp.StatusCode == http.StatusNotFound {
			return types.NotFound(se)
		}
		return types.Other(se)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return types.Other(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}
