// Copyright 2026 ILA Router Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client implements a client of the router management API.
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

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/private/serrors"
	"github.com/ilarouter/ila/router/mgmtapi"
)

// DefaultBaseURL is the address the router serves its API on by default.
const DefaultBaseURL = "http://127.0.0.1:30443/api/v1"

// ErrRequestFailed is returned for responses with a non-success status
// that do not carry a problem document.
var ErrRequestFailed = errors.New("request failed")

// ProblemError is a problem document returned by the API.
type ProblemError struct {
	mgmtapi.Problem
}

func (e *ProblemError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (status %d)", e.Title, e.Status)
	if e.Detail != nil {
		fmt.Fprintf(&b, ": %s", *e.Detail)
	}
	return b.String()
}

// Client talks to the management API of a single router.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the API at base. If hc is nil,
// http.DefaultClient is used.
func New(base string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, serrors.Wrap("parsing base URL", err, "url", base)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, serrors.New("unsupported scheme", "url", base)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: strings.TrimSuffix(base, "/"), http: hc}, nil
}

// Entries lists the identifier mappings of the router.
func (c *Client) Entries(ctx context.Context) ([]mgmtapi.Entry, error) {
	var rep []mgmtapi.Entry
	if err := c.do(ctx, http.MethodGet, "/entries", nil, &rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// AddEntry adds an identifier mapping.
func (c *Client) AddEntry(ctx context.Context, req mgmtapi.EntryRequest) (mgmtapi.Entry, error) {
	var rep mgmtapi.Entry
	if err := c.do(ctx, http.MethodPost, "/entries", req, &rep); err != nil {
		return mgmtapi.Entry{}, err
	}
	return rep, nil
}

// DeleteEntry removes the mapping of identifier.
func (c *Client) DeleteEntry(ctx context.Context, identifier ila.Half) error {
	return c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(identifier.String()),
		nil, nil)
}

// EntryAddresses returns the SIR and locator form addresses of an entry.
func (c *Client) EntryAddresses(ctx context.Context,
	index uint32) (mgmtapi.EntryAddresses, error) {

	var rep mgmtapi.EntryAddresses
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/entries/%d/addresses", index),
		nil, &rep); err != nil {

		return mgmtapi.EntryAddresses{}, err
	}
	return rep, nil
}

// InterfaceILA reports whether translation is enabled on an interface.
func (c *Client) InterfaceILA(ctx context.Context, name string) (mgmtapi.InterfaceState, error) {
	var rep mgmtapi.InterfaceState
	if err := c.do(ctx, http.MethodGet, interfacePath(name), nil, &rep); err != nil {
		return mgmtapi.InterfaceState{}, err
	}
	return rep, nil
}

// SetInterfaceILA enables or disables translation on an interface.
func (c *Client) SetInterfaceILA(ctx context.Context, name string, enable bool) error {
	method := http.MethodPut
	if !enable {
		method = http.MethodDelete
	}
	return c.do(ctx, method, interfacePath(name), nil, nil)
}

// Adjacencies lists the adjacencies of the forwarding table.
func (c *Client) Adjacencies(ctx context.Context) ([]mgmtapi.Adjacency, error) {
	var rep []mgmtapi.Adjacency
	if err := c.do(ctx, http.MethodGet, "/adjacencies", nil, &rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Trace returns the collected packet traces.
func (c *Client) Trace(ctx context.Context) (mgmtapi.TraceResponse, error) {
	var rep mgmtapi.TraceResponse
	if err := c.do(ctx, http.MethodGet, "/trace", nil, &rep); err != nil {
		return mgmtapi.TraceResponse{}, err
	}
	return rep, nil
}

// AddTrace arms tracing for the next count input packets.
func (c *Client) AddTrace(ctx context.Context, count int) error {
	return c.do(ctx, http.MethodPost, "/trace", mgmtapi.TraceRequest{Count: count}, nil)
}

// ClearTrace drops the collected traces.
func (c *Client) ClearTrace(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/trace", nil, nil)
}

func interfacePath(name string) string {
	return "/interfaces/" + url.PathEscape(name) + "/ila"
}

func (c *Client) do(ctx context.Context, method, path string, body, rep any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return serrors.Wrap("encoding request", err)
		}
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return serrors.Wrap("creating request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, application/problem+json")
	resp, err := c.http.Do(req)
	if err != nil {
		return serrors.Wrap("sending request", err, "method", method, "path", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeProblem(resp)
	}
	if rep == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(rep); err != nil {
		return serrors.Wrap("decoding response", err, "method", method, "path", path)
	}
	return nil
}

func decodeProblem(resp *http.Response) error {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return serrors.JoinNoStack(ErrRequestFailed, err, "status", resp.StatusCode)
	}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/problem+json") {
		var p mgmtapi.Problem
		if err := json.Unmarshal(raw, &p); err == nil {
			if p.Status == 0 {
				p.Status = resp.StatusCode
			}
			return &ProblemError{Problem: p}
		}
	}
	return serrors.JoinNoStack(ErrRequestFailed, nil, "status", resp.StatusCode,
		"body", strings.TrimSpace(string(raw)))
}
