package service

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/squintdb/squint/compiler"
	"github.com/squintdb/squint/schema"
	"github.com/squintdb/squint/service/srverr"
	"go.uber.org/zap"
)

type analyzeRequest struct {
	Query string `json:"query"`
}

func (c *Core) decodeQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, srverr.ErrInvalid("invalid JSON body: %w", err))
		return "", false
	}
	if req.Query == "" {
		respondError(w, srverr.ErrInvalid("body has no query"))
		return "", false
	}
	return req.Query, true
}

func (c *Core) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	query, ok := c.decodeQuery(w, r)
	if !ok {
		return
	}
	if c.cache != nil {
		if body, ok, err := c.cache.Get(r.Context(), query); err != nil {
			c.logger.Warn("Cache read failed", zap.Error(err))
		} else if ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}
	start := time.Now()
	analysis, err := compiler.AnalyzeString(query, c.conf.Model)
	c.durations.Observe(time.Since(start).Seconds())
	if err != nil {
		c.analyses.WithLabelValues("error").Inc()
		respondError(w, err)
		return
	}
	c.analyses.WithLabelValues("ok").Inc()
	resp := AnalyzeResponse{
		Columns:    make([]ColumnInfo, len(analysis.Query.Columns)),
		References: make([]string, len(analysis.References)),
	}
	for i, col := range analysis.Query.Columns {
		typ := analysis.Types[i]
		resp.Columns[i] = ColumnInfo{
			Name:       col.Name,
			From:       col.From,
			Type:       typ.Base.String(),
			Nullable:   typ.Nullable,
			PrimaryKey: col.PrimaryKey,
		}
	}
	for i, table := range analysis.References {
		resp.References[i] = table.Name
	}
	body, err := json.Marshal(resp)
	if err != nil {
		respondError(w, err)
		return
	}
	if c.cache != nil {
		if err := c.cache.Put(r.Context(), query, body); err != nil {
			c.logger.Warn("Cache write failed", zap.Error(err))
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (c *Core) handleAST(w http.ResponseWriter, r *http.Request) {
	query, ok := c.decodeQuery(w, r)
	if !ok {
		return
	}
	sel, source, err := compiler.Parse(query)
	if err != nil {
		respondError(w, source.LocalizeError(err))
		return
	}
	respond(w, http.StatusOK, map[string]interface{}{"ast": sel})
}

type schemaColumn struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

type schemaTable struct {
	Schema  string         `json:"schema,omitempty"`
	Name    string         `json:"name"`
	Columns []schemaColumn `json:"columns"`
}

func (c *Core) handleSchema(w http.ResponseWriter, r *http.Request) {
	model, ok := c.conf.Model.(*schema.MemModel)
	if !ok {
		respondError(w, srverr.ErrNotFound("catalog is not enumerable"))
		return
	}
	var tables []schemaTable
	for _, t := range model.Tables() {
		st := schemaTable{Schema: t.Schema, Name: t.Name}
		for _, col := range t.Columns {
			st.Columns = append(st.Columns, schemaColumn{
				Name:       col.Name,
				Type:       col.Type.Base.String(),
				Nullable:   col.Type.Nullable,
				PrimaryKey: col.PrimaryKey,
			})
		}
		tables = append(tables, st)
	}
	respond(w, http.StatusOK, map[string]interface{}{"tables": tables})
}
