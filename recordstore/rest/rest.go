/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package rest

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/suparena/gridstore/errors"
	"github.com/suparena/gridstore/recordstore"
)

// DefaultBaseURL is the provider's REST endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Connector mints REST-backed connection handles.
type Connector struct {
	// BaseURL overrides DefaultBaseURL when non-empty.
	BaseURL string
	// HTTPClient overrides the default client when non-nil.
	HTTPClient *http.Client
	// Logger receives per-request debug logs; zero value is silent.
	Logger zerolog.Logger
}

// NewConnector returns a Connector with default transport settings.
func NewConnector() *Connector {
	return &Connector{}
}

// Connect implements recordstore.Connector. The returned handle is
// immutably bound to the given credential and base.
func (c *Connector) Connect(accessKey, baseID string) (recordstore.Handle, error) {
	if accessKey == "" {
		return nil, errors.NewInvalidConfigurationError("no access key resolved")
	}
	if baseID == "" {
		return nil, errors.NewInvalidConfigurationError("no base ID resolved")
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := c.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Handle{
		http:      hc,
		baseURL:   baseURL,
		accessKey: accessKey,
		baseID:    baseID,
		log:       c.Logger.With().Str("base", baseID).Logger(),
	}, nil
}

// Handle is a REST connection bound to one (access key, base) pair.
type Handle struct {
	http      *http.Client
	baseURL   string
	accessKey string
	baseID    string
	log       zerolog.Logger
}

type recordEnvelope struct {
	Records []*recordstore.Record `json:"records"`
	Offset  string                `json:"offset,omitempty"`
}

type writeEnvelope struct {
	Records  []wireChange `json:"records"`
	Typecast bool         `json:"typecast,omitempty"`
}

type wireChange struct {
	ID     string         `json:"id,omitempty"`
	Fields map[string]any `json:"fields"`
}

type deleteEnvelope struct {
	Records []struct {
		ID      string `json:"id"`
		Deleted bool   `json:"deleted"`
	} `json:"records"`
}

type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

// BaseID implements recordstore.Handle.
func (h *Handle) BaseID() string {
	return h.baseID
}

// Create implements recordstore.Handle.
func (h *Handle) Create(ctx context.Context, table string, fields []map[string]any, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	body := writeEnvelope{Typecast: opts.Typecast}
	for _, f := range fields {
		body.Records = append(body.Records, wireChange{Fields: f})
	}
	var out recordEnvelope
	if err := h.do(ctx, http.MethodPost, h.tableURL(table), nil, body, &out); err != nil {
		return nil, err
	}
	return h.bindAll(out.Records, table), nil
}

// Update implements recordstore.Handle with partial-merge semantics (PATCH).
func (h *Handle) Update(ctx context.Context, table string, changes []recordstore.Change, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	return h.write(ctx, http.MethodPatch, table, changes, opts)
}

// Replace implements recordstore.Handle with full-overwrite semantics (PUT).
func (h *Handle) Replace(ctx context.Context, table string, changes []recordstore.Change, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	return h.write(ctx, http.MethodPut, table, changes, opts)
}

func (h *Handle) write(ctx context.Context, method, table string, changes []recordstore.Change, opts recordstore.WriteOptions) ([]*recordstore.Record, error) {
	body := writeEnvelope{Typecast: opts.Typecast}
	for _, ch := range changes {
		body.Records = append(body.Records, wireChange{ID: ch.ID, Fields: ch.Fields})
	}
	var out recordEnvelope
	if err := h.do(ctx, method, h.tableURL(table), nil, body, &out); err != nil {
		return nil, err
	}
	return h.bindAll(out.Records, table), nil
}

// Destroy implements recordstore.Handle.
func (h *Handle) Destroy(ctx context.Context, table string, ids []string) ([]string, error) {
	q := url.Values{}
	for _, id := range ids {
		q.Add("records[]", id)
	}
	var out deleteEnvelope
	if err := h.do(ctx, http.MethodDelete, h.tableURL(table), q, nil, &out); err != nil {
		return nil, err
	}
	deleted := make([]string, 0, len(out.Records))
	for _, r := range out.Records {
		if r.Deleted {
			deleted = append(deleted, r.ID)
		}
	}
	return deleted, nil
}

// Find implements recordstore.Handle.
func (h *Handle) Find(ctx context.Context, table, id string) (*recordstore.Record, error) {
	var rec recordstore.Record
	err := h.do(ctx, http.MethodGet, h.tableURL(table)+"/"+url.PathEscape(id), nil, nil, &rec)
	if err != nil {
		var re *errors.RemoteError
		if stderrors.As(err, &re) && re.StatusCode == http.StatusNotFound {
			return nil, errors.NewNotFoundError(table, id)
		}
		return nil, err
	}
	return rec.Bind(h, table), nil
}

// SelectPage implements recordstore.Handle.
func (h *Handle) SelectPage(ctx context.Context, table string, params *recordstore.QueryParams, offset string) (*recordstore.Page, error) {
	q := url.Values{}
	if params != nil {
		if params.FilterByFormula != "" {
			q.Set("filterByFormula", params.FilterByFormula)
		}
		for _, f := range params.Fields {
			q.Add("fields[]", f)
		}
		if params.MaxRecords > 0 {
			q.Set("maxRecords", strconv.Itoa(params.MaxRecords))
		}
		if params.PageSize > 0 {
			q.Set("pageSize", strconv.Itoa(params.PageSize))
		}
		for i, s := range params.Sort {
			q.Set(fmt.Sprintf("sort[%d][field]", i), s.Field)
			if s.Direction != "" {
				q.Set(fmt.Sprintf("sort[%d][direction]", i), s.Direction)
			}
		}
		if params.View != "" {
			q.Set("view", params.View)
		}
		if params.CellFormat != "" {
			q.Set("cellFormat", params.CellFormat)
		}
		if params.TimeZone != "" {
			q.Set("timeZone", params.TimeZone)
		}
		if params.UserLocale != "" {
			q.Set("userLocale", params.UserLocale)
		}
	}
	if offset != "" {
		q.Set("offset", offset)
	}
	var out recordEnvelope
	if err := h.do(ctx, http.MethodGet, h.tableURL(table), q, nil, &out); err != nil {
		return nil, err
	}
	return &recordstore.Page{Records: h.bindAll(out.Records, table), Offset: out.Offset}, nil
}

func (h *Handle) tableURL(table string) string {
	return h.baseURL + "/" + url.PathEscape(h.baseID) + "/" + url.PathEscape(table)
}

func (h *Handle) bindAll(recs []*recordstore.Record, table string) []*recordstore.Record {
	for _, r := range recs {
		r.Bind(h, table)
	}
	return recs
}

func (h *Handle) do(ctx context.Context, method, rawURL string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+h.accessKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug().Str("method", method).Str("url", rawURL).Msg("store request")

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp.StatusCode, payload)
	}

	if out != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// remoteError maps the provider's error envelope onto a RemoteError.
// The envelope's "error" member is either a string or an object with
// "type" and "message".
func remoteError(status int, payload []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(payload, &env); err == nil && len(env.Error) > 0 {
		var s string
		if json.Unmarshal(env.Error, &s) == nil {
			return errors.NewRemoteError(status, s, http.StatusText(status))
		}
		var obj struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if json.Unmarshal(env.Error, &obj) == nil {
			return errors.NewRemoteError(status, obj.Type, obj.Message)
		}
	}
	return errors.NewRemoteError(status, "", http.StatusText(status))
}
