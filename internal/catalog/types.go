package catalog

import "encoding/json"

// Preservation states written back to the catalog after gateway operations.
// The catalog is the authority for dataset state; the gateway only reports
// outcomes of the checks it ran.
const (
	StateValidMetadata            = "metadata-valid"
	StateMetadataValidationFailed = "metadata-validation-failed"
	StateTechMetadataGenerated    = "technical-metadata-generated"
	StateTechMetadataFailed       = "technical-metadata-generation-failed"
	StateInDigitalPreservation    = "in-digital-preservation"
)

// Dataset is the catalog's descriptive record for a dataset.
type Dataset struct {
	Identifier        string          `json:"identifier"`
	Title             string          `json:"title"`
	PreservationState string          `json:"preservation_state,omitempty"`
	Metadata          json.RawMessage `json:"metadata,omitempty"`
}

// File is one content file attached to a dataset.
type File struct {
	Identifier string `json:"identifier"`
	Path       string `json:"file_path"`
	Checksum   string `json:"checksum"`
}

// ValidationResult is the per-request verdict of a metadata check.
// Error is empty when Valid is true.
type ValidationResult struct {
	Valid bool
	Error string
}
