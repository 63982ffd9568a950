package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dhamidi/flatcss/format"
	"github.com/dhamidi/flatcss/parser"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Caret   *int   `json:"caret,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleFlatten(w http.ResponseWriter, r *http.Request) {
	source, ok := s.readBody(w, r)
	if !ok {
		return
	}

	flat, err := format.FlattenCSS(source, s.parserOptions()...)
	if err != nil {
		parseError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(flat)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	source, ok := s.readBody(w, r)
	if !ok {
		return
	}

	nodes, err := parser.Parse(string(source), s.parserOptions()...)
	if err != nil {
		parseError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := format.NewASTJSONEncoder(w).Encode(nodes); err != nil {
		log.Errorf("encode ast: %s", err)
	}
}

// readBody reads the request body, answering 413 when it exceeds the
// configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, errorBody{
				Kind:    "request-too-large",
				Message: fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxBodyBytes),
			}, http.StatusRequestEntityTooLarge)
			return nil, false
		}
		jsonError(w, errorBody{Kind: "bad-request", Message: "read body: " + err.Error()}, http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

func parseError(w http.ResponseWriter, err error) {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		jsonError(w, errorBody{Kind: "internal", Message: err.Error()}, http.StatusInternalServerError)
		return
	}
	jsonError(w, errorBody{
		Kind:    perr.Kind.String(),
		Message: perr.Message,
		Line:    perr.Pos.Line,
		Column:  perr.Pos.Column,
		Snippet: perr.Snippet,
		Caret:   &perr.Caret,
	}, http.StatusUnprocessableEntity)
}

func jsonError(w http.ResponseWriter, body errorBody, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]errorBody{"error": body})
}
