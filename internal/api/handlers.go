package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/teipress/teipress/internal/ast"
	"github.com/teipress/teipress/internal/isomorph"
	"github.com/teipress/teipress/internal/parser"
	"github.com/teipress/teipress/internal/tei"
)

// handleParse parses raw MarkdownTeX text and returns the tree record form.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := parser.Parse(text)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	out, err := ast.MarshalDocument(doc)
	if err != nil {
		jsonError(w, "encode tree: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

// handleSerialize parses raw MarkdownTeX text and returns canonical TEI XML.
func (s *Server) handleSerialize(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := parser.Parse(text)
	if err != nil {
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	meta := tei.SourceMeta{Source: r.URL.Query().Get("source")}
	xml, err := s.serializer.Serialize(doc, meta)
	if err != nil {
		jsonError(w, "serialize failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(xml)
}

// handleValidate runs the round-trip fidelity check over an HTML body.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	text, ok := s.readBody(w, r)
	if !ok {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.html"
	}

	report := s.checker.Check(r.Context(), name, []byte(text))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// handleValidateBatch checks several documents in one request, fanning out
// over the configured worker count.
func (s *Server) handleValidateBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var inputs []struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		jsonError(w, "decode batch: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(inputs) == 0 {
		jsonError(w, "at least one document is required", http.StatusBadRequest)
		return
	}

	items := make([]isomorph.Item, len(inputs))
	for i, in := range inputs {
		name := in.Name
		if name == "" {
			name = fmt.Sprintf("upload-%d.html", i)
		}
		items[i] = isomorph.Item{Name: name, Data: []byte(in.Content)}
	}

	batch := s.checker.CheckAll(r.Context(), items, s.cfg.ValidateWorkers)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(batch)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, fmt.Sprintf("read body: %v", err), http.StatusRequestEntityTooLarge)
		return "", false
	}
	if len(data) == 0 {
		jsonError(w, "request body is required", http.StatusBadRequest)
		return "", false
	}
	return string(data), true
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
