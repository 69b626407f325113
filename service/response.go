package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/squintdb/squint/compiler/parser"
	"github.com/squintdb/squint/service/srverr"
)

// ColumnInfo is one result column of an analyzed statement.
type ColumnInfo struct {
	Name       string `json:"name"`
	From       string `json:"from,omitempty"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// AnalyzeResponse is the successful result of POST /query/analyze.
type AnalyzeResponse struct {
	Columns    []ColumnInfo `json:"columns"`
	References []string     `json:"references"`
}

// ErrorItem is one positioned analysis failure.
type ErrorItem struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type errorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

func respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps an error to a status code: analysis failures become
// 422 with positioned items, srverr kinds map to their HTTP equivalents,
// and anything else is a 500.
func respondError(w http.ResponseWriter, err error) {
	if items, ok := errorItems(err); ok {
		respond(w, http.StatusUnprocessableEntity, errorResponse{Errors: items})
		return
	}
	status := http.StatusInternalServerError
	switch srverr.ErrorKind(err) {
	case srverr.KindInvalid:
		status = http.StatusBadRequest
	case srverr.KindNotFound:
		status = http.StatusNotFound
	case srverr.KindUnauthorized:
		status = http.StatusUnauthorized
	}
	respond(w, status, errorResponse{Errors: []ErrorItem{{Message: err.Error()}}})
}

func errorItems(err error) ([]ErrorItem, bool) {
	var list parser.LocalizedErrors
	if errors.As(err, &list) {
		items := make([]ErrorItem, len(list))
		for i, e := range list {
			items[i] = ErrorItem{Message: e.Msg, Line: e.Open.Line, Column: e.Open.Column}
		}
		return items, true
	}
	var single *parser.LocalizedError
	if errors.As(err, &single) {
		return []ErrorItem{{Message: single.Msg, Line: single.Open.Line, Column: single.Open.Column}}, true
	}
	return nil, false
}
