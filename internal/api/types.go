package api

// ValidateResponse is returned by POST /dataset/{datasetID}/validate.
// Error is the empty string when the metadata is valid.
type ValidateResponse struct {
	DatasetID string `json:"dataset_id"`
	IsValid   bool   `json:"is_valid"`
	Error     string `json:"error"`
}

// PreserveResponse is returned by POST /dataset/{datasetID}/preserve.
// Status is an opaque token; it confirms submission only, not completion.
type PreserveResponse struct {
	DatasetID string `json:"dataset_id"`
	Status    string `json:"status"`
}

// GenMetadataResponse is returned by POST /dataset/{datasetID}/genmetadata.
type GenMetadataResponse struct {
	DatasetID string `json:"dataset_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	// Submissions counts packaging jobs handed off since startup. The count
	// is process-local; the pipeline owns authoritative job state.
	Submissions int64 `json:"submissions"`
}
