package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dpres-tools/presgw/internal/catalog"
	"github.com/dpres-tools/presgw/internal/packaging"
	"github.com/go-chi/chi/v5"
)

// handleIndex handles GET /. Accessing the root URL is a bad request.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, http.StatusBadRequest, "bad request")
}

// handleHealthz handles GET /healthz (no auth).
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Submissions:   s.submissions.Load(),
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleValidate handles POST /dataset/{datasetID}/validate.
//
// The metadata check's verdict is always a 202: a failing validation is a
// domain result, not a request failure. Only transport-level problems with
// the catalog surface as HTTP errors.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "datasetID")
	if strings.TrimSpace(datasetID) == "" {
		s.writeError(w, http.StatusBadRequest, "dataset reference required")
		return
	}

	result, err := s.catalog.CheckValid(r.Context(), datasetID)
	if err != nil {
		s.logger.Error("metadata validation check failed", "dataset_id", datasetID, "error", err)
		s.writeError(w, http.StatusBadGateway, "metadata catalog unreachable")
		return
	}

	state := catalog.StateValidMetadata
	description := "Metadata passed validation"
	if !result.Valid {
		state = catalog.StateMetadataValidationFailed
		description = "Metadata did not pass validation: " + result.Error
	}
	if err := s.catalog.SetPreservationState(r.Context(), datasetID, state, description); err != nil {
		s.logger.Error("preservation state update failed", "dataset_id", datasetID, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to update preservation state")
		return
	}

	s.events.Publish("validate.completed", map[string]any{
		"at":         time.Now().UTC().Format(time.RFC3339Nano),
		"dataset_id": datasetID,
		"is_valid":   result.Valid,
		"error":      result.Error,
	})

	s.logger.Info("dataset validated", "dataset_id", datasetID, "is_valid", result.Valid)

	respondJSON(w, http.StatusAccepted, ValidateResponse{
		DatasetID: datasetID,
		IsValid:   result.Valid,
		Error:     result.Error,
	})
}

// handlePreserve handles POST /dataset/{datasetID}/preserve.
//
// The packaging job is handed to the external toolchain and the request
// returns as soon as the hand-off succeeds. The response confirms submission
// only; job completion is observed through the pipeline's own records.
func (s *Server) handlePreserve(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "datasetID")
	if strings.TrimSpace(datasetID) == "" {
		s.writeError(w, http.StatusBadRequest, "dataset reference required")
		return
	}

	sub, err := s.toolchain.Submit(r.Context(), datasetID)
	if err != nil {
		s.logger.Error("packaging submission failed", "dataset_id", datasetID, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to submit packaging job")
		return
	}

	if err := s.catalog.SetPreservationState(r.Context(), datasetID,
		catalog.StateInDigitalPreservation, "In packaging service"); err != nil {
		s.logger.Error("preservation state update failed", "dataset_id", datasetID, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to update preservation state")
		return
	}

	s.submissions.Add(1)
	s.events.Publish("preserve.submitted", map[string]any{
		"at":            sub.SubmittedAt.Format(time.RFC3339Nano),
		"submission_id": sub.ID,
		"dataset_id":    sub.DatasetID,
		"status":        sub.Status,
	})

	s.logger.Info("packaging job submitted",
		"submission_id", sub.ID, "dataset_id", datasetID)

	respondJSON(w, http.StatusAccepted, PreserveResponse{
		DatasetID: sub.DatasetID,
		Status:    sub.Status,
	})
}

// handleGenMetadata handles POST /dataset/{datasetID}/genmetadata.
//
// Generation runs synchronously: a failure reported by the toolchain itself
// is a domain result (success=false in a 202); failing to run the toolchain
// at all is an HTTP error.
func (s *Server) handleGenMetadata(w http.ResponseWriter, r *http.Request) {
	datasetID := chi.URLParam(r, "datasetID")
	if strings.TrimSpace(datasetID) == "" {
		s.writeError(w, http.StatusBadRequest, "dataset reference required")
		return
	}

	genErr := s.toolchain.GenerateMetadata(r.Context(), datasetID)

	var toolErr *packaging.ToolError
	success := genErr == nil
	errMsg := ""
	switch {
	case genErr == nil:
	case errors.As(genErr, &toolErr):
		errMsg = toolErr.Stderr
		if errMsg == "" {
			errMsg = toolErr.Error()
		}
	default:
		s.logger.Error("metadata generation failed to run", "dataset_id", datasetID, "error", genErr)
		s.writeError(w, http.StatusBadGateway, "failed to run metadata generation")
		return
	}

	state := catalog.StateTechMetadataGenerated
	description := "Technical metadata generated"
	if !success {
		state = catalog.StateTechMetadataFailed
		description = "Technical metadata generation failed: " + errMsg
	}
	if err := s.catalog.SetPreservationState(r.Context(), datasetID, state, description); err != nil {
		s.logger.Error("preservation state update failed", "dataset_id", datasetID, "error", err)
		s.writeError(w, http.StatusBadGateway, "failed to update preservation state")
		return
	}

	s.events.Publish("genmetadata.completed", map[string]any{
		"at":         time.Now().UTC().Format(time.RFC3339Nano),
		"dataset_id": datasetID,
		"success":    success,
		"error":      errMsg,
	})

	s.logger.Info("technical metadata generation finished",
		"dataset_id", datasetID, "success", success)

	respondJSON(w, http.StatusAccepted, GenMetadataResponse{
		DatasetID: datasetID,
		Success:   success,
		Error:     errMsg,
	})
}

// respondJSON is a helper to write JSON responses
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}
