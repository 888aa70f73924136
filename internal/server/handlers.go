package server

import (
	"bytes"
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tablekit/tablekit/pkg/arrowio"
	"github.com/tablekit/tablekit/pkg/buildinfo"
	"github.com/tablekit/tablekit/pkg/cache"
	"github.com/tablekit/tablekit/pkg/errors"
	"github.com/tablekit/tablekit/pkg/observability"
	"github.com/tablekit/tablekit/pkg/recipe"
	"github.com/tablekit/tablekit/pkg/table"
	"github.com/tablekit/tablekit/pkg/tableio"
)

// Content types accepted for dataset uploads. Parquet arrives as a generic
// octet stream.
const (
	contentTypeCSV     = "text/csv"
	contentTypeJSON    = "application/json"
	contentTypeParquet = "application/octet-stream"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// reshapeResponse wraps the new dataset's metadata with the cache outcome.
type reshapeResponse struct {
	Dataset *Dataset `json:"dataset"`
	Cached  bool     `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleCreateDataset stores an uploaded table. The body format follows the
// Content-Type: text/csv, application/json (records), or a Parquet octet
// stream. For CSV, ?infer=true turns on type inference and ?missing=MARKER
// sets the null marker.
func (s *Server) handleCreateDataset(w http.ResponseWriter, r *http.Request) {
	t, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.storeTable(r, t, r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d.Meta())
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"datasets": datasets,
		"count":    len(datasets),
	})
}

// handleGetDataset serves a dataset's table in the requested format:
// ?format=csv (default), json, or parquet.
func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDataset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if err := errors.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	if format == "parquet" {
		w.Header().Set("Content-Type", contentTypeParquet)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(d.Payload)
		return
	}

	t, err := arrowio.ReadParquet(bytes.NewReader(d.Payload))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "decode dataset %s", d.ID))
		return
	}

	var buf bytes.Buffer
	switch format {
	case "json":
		err = tableio.WriteJSON(t, &buf)
		w.Header().Set("Content-Type", contentTypeJSON)
	default:
		err = tableio.WriteCSV(t, &buf, tableio.CSVOptions{})
		w.Header().Set("Content-Type", contentTypeCSV+"; charset=utf-8")
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDeleteDataset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDatasetID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReshape applies one reshape operation to a stored dataset and
// stores the result as a new dataset. The body is the operation in recipe
// step form:
//
//	{"op": "longer", "id_columns": ["country"], "names_to": "date", "values_to": "cases"}
//
// Results are cached by dataset content and operation parameters, so
// repeating a reshape skips the computation but still creates a fresh
// dataset.
func (s *Server) handleReshape(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDataset(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var step recipe.Step
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&step); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse reshape request"))
		return
	}
	if err := step.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	key := s.keyer.ReshapeKey(cache.Hash(d.Payload), cache.ReshapeKeyOpts{
		Op:      step.Op,
		Options: step,
	})

	var payload []byte
	cached := false
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "reshape")
		payload = data
		cached = true
	} else {
		observability.Cache().OnCacheMiss(ctx, "reshape")
	}

	var out *table.Table
	if cached {
		out, err = arrowio.ReadParquet(bytes.NewReader(payload))
		if err != nil {
			// Unreadable entry; recompute.
			cached = false
		}
	}
	if !cached {
		in, err := arrowio.ReadParquet(bytes.NewReader(d.Payload))
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "decode dataset %s", d.ID))
			return
		}

		start := time.Now()
		observability.Reshape().OnStepStart(ctx, step.Op, in.NumRows(), in.NumCols())
		out, err = step.Apply(in, s.logger.Warnf)
		rows, cols := 0, 0
		if out != nil {
			rows, cols = out.NumRows(), out.NumCols()
		}
		observability.Reshape().OnStepComplete(ctx, step.Op, rows, cols, time.Since(start), err)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := arrowio.WriteParquet(out, &buf); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode result"))
			return
		}
		payload = buf.Bytes()

		_ = s.cache.Set(ctx, key, payload, cache.TTLReshape)
		observability.Cache().OnCacheSet(ctx, "reshape", len(payload))
	}

	result := &Dataset{
		ID:        uuid.NewString(),
		Name:      r.URL.Query().Get("name"),
		Rows:      out.NumRows(),
		Columns:   out.ColumnNames(),
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.store.Put(ctx, result); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, reshapeResponse{
		Dataset: result.Meta(),
		Cached:  cached,
	})
}

// readBody decodes an uploaded table according to the request Content-Type.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (*table.Table, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)

	ct := r.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported Content-Type: %q (expected text/csv, application/json, or application/octet-stream)", ct)
	}

	switch mediaType {
	case contentTypeCSV:
		q := r.URL.Query()
		infer, _ := strconv.ParseBool(q.Get("infer"))
		return tableio.ReadCSV(body, tableio.CSVOptions{
			Infer:   infer,
			Missing: q.Get("missing"),
		})
	case contentTypeJSON:
		return tableio.ReadJSON(body)
	case contentTypeParquet:
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(body); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
		}
		return arrowio.ReadParquet(bytes.NewReader(buf.Bytes()))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported Content-Type: %q (expected text/csv, application/json, or application/octet-stream)", mediaType)
	}
}

// storeTable serializes a table and stores it as a new dataset.
func (s *Server) storeTable(r *http.Request, t *table.Table, name string) (*Dataset, error) {
	var buf bytes.Buffer
	if err := arrowio.WriteParquet(t, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode dataset")
	}

	d := &Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Rows:      t.NumRows(),
		Columns:   t.ColumnNames(),
		CreatedAt: time.Now().UTC(),
		Payload:   buf.Bytes(),
	}
	if err := s.store.Put(r.Context(), d); err != nil {
		return nil, err
	}
	return d, nil
}

// loadDataset fetches the dataset named by the {id} path parameter.
func (s *Server) loadDataset(r *http.Request) (*Dataset, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateDatasetID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// writeError maps an error to an HTTP status and writes the JSON error
// body. Validation and reshape failures are client errors; store and codec
// failures are server errors and get logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, errorResponse{
		Code:  string(code),
		Error: errors.UserMessage(err),
	})
}

func statusForCode(code errors.Code) int {
	switch code {
	case errors.ErrCodeSchema,
		errors.ErrCodeSplitArity,
		errors.ErrCodeTypeCoercion,
		errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidColumn,
		errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidRecipe:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound,
		errors.ErrCodeDatasetNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
