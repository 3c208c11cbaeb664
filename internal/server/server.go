// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes conversion over HTTP: single points, CSV uploads,
// session download and reset.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/utmconv/internal/bulk"
	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/reader"
	"github.com/pdiddy/utmconv/internal/session"
	"github.com/pdiddy/utmconv/internal/utm"
	"github.com/pdiddy/utmconv/pkg/types"
)

const defaultMaxUpload = 10 << 20

// Server holds the dependencies shared by the handlers.
type Server struct {
	conv      *utm.Converter
	store     session.Store
	cfg       types.ConverterConfig
	maxUpload int64
}

// New creates a Server converting with conv and recording into store.
// cfg supplies the default zone, hemisphere, and display precision.
func New(conv *utm.Converter, store session.Store, cfg types.ConverterConfig, maxUpload int64) *Server {
	if cfg.Zone == 0 {
		cfg.Zone = types.DefaultZone
	}
	if cfg.Precision < 0 {
		cfg.Precision = export.DefaultPrecision
	}
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	return &Server{conv: conv, store: store, cfg: cfg, maxUpload: maxUpload}
}

// Router returns the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Post("/bulk", s.handleBulk)
		r.Get("/download", s.handleDownload)
		r.Delete("/session", s.handleClear)
	})
	return r
}

type convertRequest struct {
	// Input is the "easting northing" text a form would submit.
	Input    string   `json:"input,omitempty"`
	Easting  *float64 `json:"easting,omitempty"`
	Northing *float64 `json:"northing,omitempty"`
	Zone     *int     `json:"zone,omitempty"`
	Southern *bool    `json:"southern,omitempty"`
}

type convertResponse struct {
	Input     types.UTMCoordinate `json:"input"`
	Latitude  *float64            `json:"latitude"`
	Longitude *float64            `json:"longitude"`
	Formatted string              `json:"formatted"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	input, err := s.resolveInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	geo := s.conv.ConvertCoordinate(input)
	if err := s.store.Append(r.Context(), types.ConversionRecord{Input: input, Output: geo}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, convertResponse{
		Input:     input,
		Latitude:  export.Finite(geo.Latitude),
		Longitude: export.Finite(geo.Longitude),
		Formatted: export.FormatPair(geo, s.cfg.Precision),
	})
}

func (s *Server) resolveInput(req convertRequest) (types.UTMCoordinate, error) {
	input := types.UTMCoordinate{Zone: s.cfg.Zone, Northern: !s.cfg.Southern}
	if req.Zone != nil {
		input.Zone = *req.Zone
	}
	if req.Southern != nil {
		input.Northern = !*req.Southern
	}
	if err := utm.ValidateZone(input.Zone); err != nil {
		return input, err
	}

	switch {
	case strings.TrimSpace(req.Input) != "":
		e, n, err := reader.ParsePoint(req.Input)
		if err != nil {
			return input, err
		}
		input.Easting, input.Northing = e, n
	case req.Easting != nil && req.Northing != nil:
		input.Easting, input.Northing = *req.Easting, *req.Northing
	default:
		return input, reader.ErrFieldCount
	}
	return input, nil
}

func (s *Server) handleBulk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	body, err := uploadBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines, err := reader.ReadCSV(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := bulk.Options{Zone: s.cfg.Zone, Northern: !s.cfg.Southern, Precision: s.cfg.Precision}
	result, err := bulk.Run(r.Context(), s.conv, lines, opts, s.store, io.Discard)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// uploadBody returns the CSV payload: the "file" part of a multipart form,
// or the raw request body otherwise.
func uploadBody(r *http.Request) (io.Reader, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("please upload a CSV file")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("reading upload: %w", err)
		}
		return bytes.NewReader(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("please upload a CSV file")
	}
	return bytes.NewReader(data), nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.store.Records(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, records, s.cfg.Precision); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes the request body into dest, rejecting unknown fields
// and trailing data.
func decodeJSON(r *http.Request, dest any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return errors.New("unexpected data after JSON payload")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
