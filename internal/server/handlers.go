// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/openrpcdoc

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/woozymasta/openrpcdoc"
)

// methodSummary is one entry of the method index.
type methodSummary struct {
	Name    string   `json:"name"`
	Summary string   `json:"summary,omitempty"`
	Params  []string `json:"params"`
}

// descriptorResponse is the JSON form of a content descriptor.
type descriptorResponse struct {
	Name        string            `json:"name"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Required    bool              `json:"required"`
	Schema      openrpcdoc.Schema `json:"schema"`
}

// exampleResponse is the JSON form of an example pairing with by-name params.
type exampleResponse struct {
	Name    string         `json:"name"`
	Summary string         `json:"summary,omitempty"`
	Params  map[string]any `json:"params"`
	Result  any            `json:"result"`
}

// methodResponse is the JSON form of one method.
type methodResponse struct {
	Name        string               `json:"name"`
	Summary     string               `json:"summary,omitempty"`
	Description string               `json:"description,omitempty"`
	Params      []descriptorResponse `json:"params"`
	Result      *descriptorResponse  `json:"result,omitempty"`
	Examples    []exampleResponse    `json:"examples"`
}

// healthResponse reports liveness and the current revision.
type healthResponse struct {
	Status   string    `json:"status"`
	Revision string    `json:"revision"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Methods  int       `json:"methods"`
	Schemas  int       `json:"schemas"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	writeBody(w, "text/html; charset=utf-8", []byte(s.snapshotFrom(r).HTML))
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	writeBody(w, "text/markdown; charset=utf-8", []byte(s.snapshotFrom(r).Markdown))
}

func (s *Server) handleDocumentJSON(w http.ResponseWriter, r *http.Request) {
	writeBody(w, "application/json", s.snapshotFrom(r).Raw)
}

func (s *Server) handleDocumentYAML(w http.ResponseWriter, r *http.Request) {
	data, err := s.snapshotFrom(r).Document.Export(openrpcdoc.ExportFormatYAML)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeBody(w, "application/yaml", data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.snapshotFrom(r)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Revision: snapshot.Revision,
		Source:   snapshot.Source,
		LoadedAt: snapshot.LoadedAt,
		Methods:  len(snapshot.Document.Methods),
		Schemas:  len(snapshot.Document.Schemas),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	report := s.snapshotFrom(r).Report
	if report.Issues == nil {
		report.Issues = []openrpcdoc.Issue{}
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	doc := s.snapshotFrom(r).Document
	out := make([]methodSummary, 0, len(doc.Methods))
	for _, method := range doc.Methods {
		params := method.ParamNames()
		if params == nil {
			params = []string{}
		}

		out = append(out, methodSummary{
			Name:    method.Name,
			Summary: method.Summary,
			Params:  params,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	method, ok := s.snapshotFrom(r).Document.Method(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w %q", openrpcdoc.ErrUnknownMethod, name))
		return
	}

	writeJSON(w, http.StatusOK, newMethodResponse(method))
}

func (s *Server) handleMethodExample(w http.ResponseWriter, r *http.Request) {
	mode, format := exampleQuery(r)
	data, err := s.snapshotFrom(r).Document.GenerateParamsExample(chi.URLParam(r, "name"), mode, format)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}

	writeBody(w, exampleContentType(string(format)), data)
}

func (s *Server) handleSchemas(w http.ResponseWriter, r *http.Request) {
	names := s.snapshotFrom(r).Document.SchemaNames()
	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	schema, ok := s.snapshotFrom(r).Document.Schema(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w %q", openrpcdoc.ErrUnknownSchema, name))
		return
	}

	writeJSON(w, http.StatusOK, schema)
}

func (s *Server) handleSchemaExample(w http.ResponseWriter, r *http.Request) {
	mode, format := exampleQuery(r)
	data, err := s.snapshotFrom(r).Document.GenerateSchemaExample(chi.URLParam(r, "name"), mode, format)
	if err != nil {
		writeError(w, errorStatus(err), err)
		return
	}

	writeBody(w, exampleContentType(string(format)), data)
}

// exampleQuery reads mode and format query values with "all" and "json" defaults.
func exampleQuery(r *http.Request) (openrpcdoc.ExampleMode, openrpcdoc.ExampleFormat) {
	query := r.URL.Query()

	mode := openrpcdoc.ExampleMode(query.Get("mode"))
	if mode == "" {
		mode = openrpcdoc.ExampleModeAll
	}

	format := openrpcdoc.ExampleFormat(query.Get("format"))
	if format == "" {
		format = openrpcdoc.ExampleFormatJSON
	}

	return mode, format
}

func newMethodResponse(method openrpcdoc.Method) methodResponse {
	out := methodResponse{
		Name:        method.Name,
		Summary:     method.Summary,
		Description: method.Description,
		Params:      make([]descriptorResponse, 0, len(method.Params)),
		Examples:    make([]exampleResponse, 0, len(method.Examples)),
	}

	for _, param := range method.Params {
		out.Params = append(out.Params, newDescriptorResponse(param))
	}

	if method.Result != nil {
		result := newDescriptorResponse(*method.Result)
		out.Result = &result
	}

	for _, example := range method.Examples {
		params := make(map[string]any, len(example.Params))
		for _, param := range example.Params {
			params[param.Name] = param.Value
		}

		var result any
		if example.Result != nil {
			result = example.Result.Value
		}

		out.Examples = append(out.Examples, exampleResponse{
			Name:    example.Name,
			Summary: example.Summary,
			Params:  params,
			Result:  result,
		})
	}

	return out
}

func newDescriptorResponse(descriptor openrpcdoc.ContentDescriptor) descriptorResponse {
	return descriptorResponse{
		Name:        descriptor.Name,
		Summary:     descriptor.Summary,
		Description: descriptor.Description,
		Required:    descriptor.Required,
		Schema:      descriptor.Schema,
	}
}
