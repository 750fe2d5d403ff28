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

// Package mgmtapi implements the http management API of the ILA router.
package mgmtapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ilarouter/ila/pkg/ila"
	"github.com/ilarouter/ila/pkg/log"
	api "github.com/ilarouter/ila/private/mgmtapi"
	"github.com/ilarouter/ila/router"
	"github.com/ilarouter/ila/router/control"
	"github.com/ilarouter/ila/router/fib"
	"github.com/ilarouter/ila/router/store"
)

// Manager is the configuration interface the API drives. It is implemented
// by control.Manager.
type Manager interface {
	AddDelEntry(args control.EntryArgs) (store.EntryID, error)
	Entries() []store.IndexedEntry
	Addresses(eid store.EntryID) (control.Addresses, error)
	EnableInterface(name string) error
	DisableInterface(name string) error
	InterfaceEnabled(name string) (bool, error)
	Adjacencies() []fib.AdjacencyInfo
}

// Tracer collects packet traces. It is implemented by router.Tracer.
type Tracer interface {
	Add(n int)
	Pending() int
	Records() []router.TraceRecord
	Clear()
}

var _ ServerInterface = (*Server)(nil)

// Server implements the http management API of the router.
type Server struct {
	Manager Manager
	Tracer  Tracer
}

// GetEntries lists all entries in index order.
func (s *Server) GetEntries(w http.ResponseWriter, r *http.Request) {
	entries := s.Manager.Entries()
	rep := make([]Entry, 0, len(entries))
	for _, e := range entries {
		rep = append(rep, entryFrom(e))
	}
	writeJSON(w, http.StatusOK, rep)
}

// AddEntry adds the entry in the request body.
func (s *Server) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		ErrorResponse(w, Problem{
			Detail: api.StringRef(err.Error()),
			Status: http.StatusBadRequest,
			Title:  "malformed entry",
			Type:   api.StringRef(api.BadRequest),
		})
		return
	}
	args := control.EntryArgs{
		Identifier: req.Identifier,
		Locator:    req.Locator,
		SIRPrefix:  req.SIRPrefix,
		Mode:       req.CsumMode,
		LocalAdj:   fib.AdjNil,
	}
	if req.AdjacencyIndex != nil {
		args.LocalAdj = fib.AdjIndex(*req.AdjacencyIndex)
	}
	eid, err := s.Manager.AddDelEntry(args)
	if err != nil {
		errorResponseFor(w, "unable to add entry", err)
		return
	}
	log.Info("Entry added through management API", "entry", eid,
		"identifier", req.Identifier)
	writeJSON(w, http.StatusCreated, Entry{
		Index:          uint32(eid),
		Identifier:     req.Identifier,
		Locator:        req.Locator,
		SIRPrefix:      req.SIRPrefix,
		CsumMode:       req.CsumMode,
		AdjacencyIndex: req.AdjacencyIndex,
	})
}

// DeleteEntry deletes the entry with the given identifier.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request, identifier string) {
	id, err := ila.ParseHalf(identifier)
	if err != nil {
		ErrorResponse(w, Problem{
			Detail: api.StringRef(err.Error()),
			Status: http.StatusBadRequest,
			Title:  "malformed identifier",
			Type:   api.StringRef(api.BadRequest),
		})
		return
	}
	eid, err := s.Manager.AddDelEntry(control.EntryArgs{Identifier: id, IsDelete: true})
	if err != nil {
		errorResponseFor(w, "unable to delete entry", err)
		return
	}
	log.Info("Entry deleted through management API", "entry", eid, "identifier", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetEntryAddresses shows the SIR form and the locator form address of an
// entry.
func (s *Server) GetEntryAddresses(w http.ResponseWriter, r *http.Request, index uint32) {
	a, err := s.Manager.Addresses(store.EntryID(index))
	if err != nil {
		errorResponseFor(w, "unable to get addresses", err)
		return
	}
	writeJSON(w, http.StatusOK, EntryAddresses{
		Index:            index,
		SIR:              a.SIR.String(),
		Locator:          a.Locator.String(),
		ChecksumModifier: fmt.Sprintf("0x%04x", uint16(a.Modifier)),
	})
}

// GetInterfaceILA reports whether translation is enabled on an interface.
func (s *Server) GetInterfaceILA(w http.ResponseWriter, r *http.Request, name string) {
	enabled, err := s.Manager.InterfaceEnabled(name)
	if err != nil {
		errorResponseFor(w, "unable to get interface", err)
		return
	}
	writeJSON(w, http.StatusOK, InterfaceState{Name: name, ILAEnabled: enabled})
}

// EnableInterfaceILA enables translation on an interface.
func (s *Server) EnableInterfaceILA(w http.ResponseWriter, r *http.Request, name string) {
	if err := s.Manager.EnableInterface(name); err != nil {
		errorResponseFor(w, "unable to enable interface", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DisableInterfaceILA disables translation on an interface.
func (s *Server) DisableInterfaceILA(w http.ResponseWriter, r *http.Request, name string) {
	if err := s.Manager.DisableInterface(name); err != nil {
		errorResponseFor(w, "unable to disable interface", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAdjacencies lists the adjacencies of the forwarding table.
func (s *Server) GetAdjacencies(w http.ResponseWriter, r *http.Request) {
	adjs := s.Manager.Adjacencies()
	rep := make([]Adjacency, 0, len(adjs))
	for _, a := range adjs {
		rep = append(rep, Adjacency{
			Index:       uint32(a.Index),
			Kind:        a.Adjacency.Next().String(),
			Description: a.Adjacency.String(),
			Pinned:      a.Pinned,
			Routes:      a.Routes,
		})
	}
	writeJSON(w, http.StatusOK, rep)
}

// GetTrace returns the collected trace records.
func (s *Server) GetTrace(w http.ResponseWriter, r *http.Request) {
	records := s.Tracer.Records()
	if records == nil {
		records = []router.TraceRecord{}
	}
	writeJSON(w, http.StatusOK, TraceResponse{
		Pending: s.Tracer.Pending(),
		Records: records,
	})
}

// AddTrace arms tracing for the next count input packets.
func (s *Server) AddTrace(w http.ResponseWriter, r *http.Request) {
	var req TraceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Count <= 0 {
		detail := "count must be positive"
		if err != nil {
			detail = err.Error()
		}
		ErrorResponse(w, Problem{
			Detail: api.StringRef(detail),
			Status: http.StatusBadRequest,
			Title:  "malformed trace request",
			Type:   api.StringRef(api.BadRequest),
		})
		return
	}
	s.Tracer.Add(req.Count)
	w.WriteHeader(http.StatusNoContent)
}

// ClearTrace drops all trace records and disarms tracing.
func (s *Server) ClearTrace(w http.ResponseWriter, r *http.Request) {
	s.Tracer.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func entryFrom(e store.IndexedEntry) Entry {
	r := Entry{
		Index:      uint32(e.ID),
		Identifier: e.Identifier,
		Locator:    e.Locator,
		SIRPrefix:  e.SIRPrefix,
		CsumMode:   e.Mode,
	}
	if e.Local() {
		adj := uint32(e.LocalAdj)
		r.AdjacencyIndex = &adj
	}
	return r
}

// problemFor classifies a control error.
func problemFor(title string, err error) Problem {
	p := Problem{
		Detail: api.StringRef(err.Error()),
		Title:  title,
	}
	switch {
	case errors.Is(err, store.ErrDuplicateIdentifier):
		p.Status, p.Type = http.StatusConflict, api.StringRef(api.Conflict)
	case errors.Is(err, store.ErrUnknownIdentifier),
		errors.Is(err, control.ErrUnknownEntry),
		errors.Is(err, control.ErrUnknownInterface):
		p.Status, p.Type = http.StatusNotFound, api.StringRef(api.NotFound)
	case errors.Is(err, store.ErrUnsupportedMode),
		errors.Is(err, store.ErrInvalidIdentifier),
		errors.Is(err, fib.ErrUnknownAdjacency),
		errors.Is(err, control.ErrInvalidAdjacency):
		p.Status, p.Type = http.StatusUnprocessableEntity, api.StringRef(api.UnprocessableEntity)
	case errors.Is(err, store.ErrTableFull):
		p.Status, p.Type = http.StatusInsufficientStorage, api.StringRef(api.InsufficientStorage)
	default:
		p.Status, p.Type = http.StatusInternalServerError, api.StringRef(api.InternalError)
	}
	return p
}

func errorResponseFor(w http.ResponseWriter, title string, err error) {
	p := problemFor(title, err)
	if p.Status == http.StatusInternalServerError {
		log.Error("Management API request failed", "title", title, "err", err)
	}
	ErrorResponse(w, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	// no point in catching error here, there is nothing we can do about it anymore.
	_ = enc.Encode(v)
}

// ErrorResponse writes a detailed error response.
func ErrorResponse(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	// no point in catching error here, there is nothing we can do about it anymore.
	_ = enc.Encode(p)
}
