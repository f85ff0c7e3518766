package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/errors"
	"github.com/matzehuels/waterfall/pkg/pipeline"
	"github.com/matzehuels/waterfall/pkg/render/sink"
	"github.com/matzehuels/waterfall/pkg/store"
)

// chartRequest is the body of /v1/layout and /v1/render.
type chartRequest struct {
	Model   *chart.Model      `json:"model"`
	Options *pipeline.Options `json:"options,omitempty"`
}

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChartRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req.Options)

	res, err := s.runner.Layout(r.Context(), req.Model, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	jsonOpts := []sink.JSONOption{sink.WithJSONModel(req.Model)}
	if opts.Labels {
		jsonOpts = append(jsonOpts, sink.WithJSONLabels())
	}
	data, err := sink.RenderJSON(res, jsonOpts...)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	writeBytes(w, contentTypes[pipeline.FormatJSON], data)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := decodeChartRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(req.Options)
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, req.Model, opts)
}

func (s *Server) handleRenderChart(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.options(nil)
	if err := applyQuery(&opts, r.URL.Query()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, rec.Model, opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, m *chart.Model, opts pipeline.Options) {
	format := opts.Formats[0]
	artifacts, hit, err := s.runner.RenderWithCacheInfo(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeBytes(w, contentTypes[format], artifacts[format])
}

func (s *Server) handleListCharts(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"charts": recs})
}

func (s *Server) handleCreateChart(w http.ResponseWriter, r *http.Request) {
	m, err := decodeModel(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec := store.NewRecord(m)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/charts/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePutChart(w http.ResponseWriter, r *http.Request) {
	m, err := decodeModel(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rec := &store.Record{ID: chi.URLParam(r, "id"), Model: m}
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteChart(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// options merges request options over the server defaults.
func (s *Server) options(req *pipeline.Options) pipeline.Options {
	if req == nil {
		return s.defaults
	}
	opts := *req
	if opts.Width == 0 {
		opts.Width = s.defaults.Width
	}
	if opts.Height == 0 {
		opts.Height = s.defaults.Height
	}
	if opts.GapFraction == 0 {
		opts.GapFraction = s.defaults.GapFraction
	}
	if opts.Style == "" {
		opts.Style = s.defaults.Style
	}
	return opts
}

// applyQuery overlays query parameters on opts. Exactly one format is
// rendered per request; it defaults to svg.
func applyQuery(opts *pipeline.Options, q url.Values) error {
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}
	opts.Formats = []string{format}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"scale", &opts.Scale},
		{"gap", &opts.GapFraction},
	}
	for _, f := range floats {
		if v := q.Get(f.name); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", f.name, v)
			}
			*f.dst = x
		}
	}
	if v := q.Get("start"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid start: %q", v)
		}
		opts.StartPos = &x
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"labels", &opts.Labels},
		{"connectors", &opts.Connectors},
		{"no_window", &opts.NoWindow},
	}
	for _, b := range bools {
		if v := q.Get(b.name); v != "" {
			x, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", b.name, v)
			}
			*b.dst = x
		}
	}
	return nil
}

func decodeChartRequest(r *http.Request) (*chartRequest, error) {
	var req chartRequest
	if err := decodeBody(r, &req); err != nil {
		return nil, err
	}
	if req.Model == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no model")
	}
	return &req, nil
}

func decodeModel(r *http.Request) (*chart.Model, error) {
	var m chart.Model
	if err := decodeBody(r, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

type errorResponse struct {
	Error     errors.Code `json:"error"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: code, Message: msg, RequestID: RequestID(r.Context())})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
