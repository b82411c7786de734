package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/compare"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/plan"
	"github.com/matteomaspero/rt-complexity-lens-sub001/internal/taxonomy"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/constants"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/output"
	"github.com/matteomaspero/rt-complexity-lens-sub001/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the comparison API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Comparison of two uploaded snapshot files
	mux.HandleFunc("/api/compare", h.handleCompare)

	// Comparison of two inline snapshot documents
	mux.HandleFunc("/api/compare/json", h.handleCompareJSON)

	// Snapshot serialization endpoint for downloads
	mux.HandleFunc("/api/snapshot/export", h.handleSnapshotExport)

	// Metric catalog
	mux.HandleFunc("/api/metrics", h.handleMetrics)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type compareResponse struct {
	ComparisonID string         `json:"comparisonId"`
	Result       compare.Result `json:"result"`
	Warnings     []string       `json:"warnings,omitempty"`
	CSV          string         `json:"csv"`
	Duration     string         `json:"duration"`
}

type metricsResponse struct {
	Plan []taxonomy.Definition `json:"plan"`
	Beam []taxonomy.Definition `json:"beam"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	dataA, err := h.readFormFile(r, "planA", op)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	dataB, err := h.readFormFile(r, "planB", op)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	opts := compare.DefaultOptions()
	if raw := r.FormValue("includeBeams"); raw != "" {
		opts.IncludeBeams = coerceBool(raw)
	}

	h.runCompare(w, dataA, dataB, opts, start, op)
}

func (h *handler) readFormFile(r *http.Request, field, op string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %s snapshot file", field)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.String("field", field),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, fmt.Errorf("failed to read %s snapshot: %v", field, err)
	}
	return buf.Bytes(), nil
}

func (h *handler) handleCompareJSON(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompareJSON"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	docs := make([][]byte, 0, 2)
	for _, field := range []string{"planA", "planB"} {
		raw, ok := payload[field]
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("missing %s snapshot", field), op)
			return
		}
		doc, ok := raw.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid %s payload: expected object", field), op)
			return
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode %s snapshot: %v", field, err), op)
			return
		}
		docs = append(docs, data)
	}

	opts := compare.DefaultOptions()
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", op)
			return
		}
		if includeBeams, ok := optsMap["includeBeams"]; ok {
			opts.IncludeBeams = coerceBool(includeBeams)
		}
	}

	h.runCompare(w, docs[0], docs[1], opts, start, op)
}

func (h *handler) runCompare(w http.ResponseWriter, dataA, dataB []byte, opts compare.Options, start time.Time, op string) {
	snapA, warningsA, err := plan.ParseSnapshot(dataA)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("planA: %v", err), op)
		return
	}
	snapB, warningsB, err := plan.ParseSnapshot(dataB)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("planB: %v", err), op)
		return
	}

	warnings := collectWarnings("planA", snapA, warningsA)
	warnings = append(warnings, collectWarnings("planB", snapB, warningsB)...)

	result := compare.Plans(h.logger, snapA, snapB, opts)

	csvData, err := output.CsvString(result)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := compareResponse{
		ComparisonID: uuid.NewString(),
		Result:       result,
		Warnings:     warnings,
		CSV:          csvData,
		Duration:     elapsed.String(),
	}

	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.String("comparisonId", response.ComparisonID),
		zap.Int("metrics", len(result.Metrics)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func collectWarnings(side string, snap plan.Snapshot, parseWarnings []string) []string {
	sv := validation.SnapshotValidator{Snapshot: snap}
	all := append(append([]string(nil), parseWarnings...), sv.ValidateAll()...)
	for i, w := range all {
		all[i] = side + ": " + w
	}
	return all
}

func (h *handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, metricsResponse{
		Plan: taxonomy.Definitions(),
		Beam: taxonomy.BeamDefinitions(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleSnapshotExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSnapshotExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode snapshot: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedSnapshotYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode snapshot: %v", err), op)
		return
	}

	if _, _, err := plan.ParseSnapshot(yamlBytes); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid snapshot: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"snapshotYaml": string(yamlBytes),
	})
}

// snapshotKeyOrder is the key order of exported snapshot documents.
var snapshotKeyOrder = []string{"planLabel", "technique", "beams", "metrics", "beamMetrics"}

func marshalOrderedSnapshotYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range snapshotKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedDocument{items: items})
}

type orderedDocument struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedDocument) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("comparison request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		if parsed, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return parsed != 0
		}
	}
	return false
}
