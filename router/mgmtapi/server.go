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

package mgmtapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	api "github.com/ilarouter/ila/private/mgmtapi"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List the entries.
	// (GET /entries)
	GetEntries(w http.ResponseWriter, r *http.Request)
	// Add an entry.
	// (POST /entries)
	AddEntry(w http.ResponseWriter, r *http.Request)
	// Delete the entry with the given identifier.
	// (DELETE /entries/{identifier})
	DeleteEntry(w http.ResponseWriter, r *http.Request, identifier string)
	// Show the addresses of an entry.
	// (GET /entries/{index}/addresses)
	GetEntryAddresses(w http.ResponseWriter, r *http.Request, index uint32)
	// (GET /interfaces/{name}/ila)
	GetInterfaceILA(w http.ResponseWriter, r *http.Request, name string)
	// (PUT /interfaces/{name}/ila)
	EnableInterfaceILA(w http.ResponseWriter, r *http.Request, name string)
	// (DELETE /interfaces/{name}/ila)
	DisableInterfaceILA(w http.ResponseWriter, r *http.Request, name string)
	// (GET /adjacencies)
	GetAdjacencies(w http.ResponseWriter, r *http.Request)
	// (GET /trace)
	GetTrace(w http.ResponseWriter, r *http.Request)
	// (POST /trace)
	AddTrace(w http.ResponseWriter, r *http.Request)
	// (DELETE /trace)
	ClearTrace(w http.ResponseWriter, r *http.Request)
}

// serverInterfaceWrapper extracts the path parameters.
type serverInterfaceWrapper struct {
	Handler ServerInterface
}

// DeleteEntry operation middleware
func (siw *serverInterfaceWrapper) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	var identifier string
	if err := bindPathParameter(r, "identifier", &identifier); err != nil {
		invalidParamFormat(w, "identifier", err)
		return
	}
	siw.Handler.DeleteEntry(w, r, identifier)
}

// GetEntryAddresses operation middleware
func (siw *serverInterfaceWrapper) GetEntryAddresses(w http.ResponseWriter, r *http.Request) {
	var index uint32
	if err := bindPathParameter(r, "index", &index); err != nil {
		invalidParamFormat(w, "index", err)
		return
	}
	siw.Handler.GetEntryAddresses(w, r, index)
}

// GetInterfaceILA operation middleware
func (siw *serverInterfaceWrapper) GetInterfaceILA(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPathParameter(r, "name", &name); err != nil {
		invalidParamFormat(w, "name", err)
		return
	}
	siw.Handler.GetInterfaceILA(w, r, name)
}

// EnableInterfaceILA operation middleware
func (siw *serverInterfaceWrapper) EnableInterfaceILA(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPathParameter(r, "name", &name); err != nil {
		invalidParamFormat(w, "name", err)
		return
	}
	siw.Handler.EnableInterfaceILA(w, r, name)
}

// DisableInterfaceILA operation middleware
func (siw *serverInterfaceWrapper) DisableInterfaceILA(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := bindPathParameter(r, "name", &name); err != nil {
		invalidParamFormat(w, "name", err)
		return
	}
	siw.Handler.DisableInterfaceILA(w, r, name)
}

func bindPathParameter(r *http.Request, name string, dest any) error {
	return runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
}

func invalidParamFormat(w http.ResponseWriter, param string, err error) {
	ErrorResponse(w, Problem{
		Detail: api.StringRef(err.Error()),
		Status: http.StatusBadRequest,
		Title:  fmt.Sprintf("invalid format for parameter %s", param),
		Type:   api.StringRef(api.BadRequest),
	})
}

// Handler creates http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerFromMux(si, chi.NewRouter())
}

// HandlerFromMux creates http.Handler with routing matching the API on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerFromMuxWithBaseURL(si, r, "")
}

// HandlerFromMuxWithBaseURL creates http.Handler with routing matching the
// API below baseURL on r.
func HandlerFromMuxWithBaseURL(si ServerInterface, r chi.Router, baseURL string) http.Handler {
	wrapper := serverInterfaceWrapper{Handler: si}
	r.Group(func(r chi.Router) {
		r.Get(baseURL+"/entries", si.GetEntries)
		r.Post(baseURL+"/entries", si.AddEntry)
		r.Delete(baseURL+"/entries/{identifier}", wrapper.DeleteEntry)
		r.Get(baseURL+"/entries/{index}/addresses", wrapper.GetEntryAddresses)
		r.Get(baseURL+"/interfaces/{name}/ila", wrapper.GetInterfaceILA)
		r.Put(baseURL+"/interfaces/{name}/ila", wrapper.EnableInterfaceILA)
		r.Delete(baseURL+"/interfaces/{name}/ila", wrapper.DisableInterfaceILA)
		r.Get(baseURL+"/adjacencies", si.GetAdjacencies)
		r.Get(baseURL+"/trace", si.GetTrace)
		r.Post(baseURL+"/trace", si.AddTrace)
		r.Delete(baseURL+"/trace", si.ClearTrace)
	})
	return r
}
