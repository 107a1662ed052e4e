package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CheckValid runs the metadata validation check for a dataset reference.
//
// Domain failures (missing dataset, incomplete metadata) come back inside the
// ValidationResult with Valid=false and a descriptive message; the error
// return is reserved for transport-level problems where no verdict exists.
func (c *Client) CheckValid(ctx context.Context, datasetID string) (ValidationResult, error) {
	ds, err := c.GetDataset(ctx, datasetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ValidationResult{
				Valid: false,
				Error: fmt.Sprintf("Could not find metadata for dataset: %s", datasetID),
			}, nil
		}
		return ValidationResult{}, err
	}

	files, err := c.DatasetFiles(ctx, datasetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ValidationResult{
				Valid: false,
				Error: fmt.Sprintf("Could not find file metadata for dataset: %s", datasetID),
			}, nil
		}
		return ValidationResult{}, err
	}

	if msg := describeMetadataProblems(ds, files); msg != "" {
		return ValidationResult{Valid: false, Error: msg}, nil
	}
	return ValidationResult{Valid: true}, nil
}

// describeMetadataProblems checks the descriptive metadata a submission
// package needs. Returns an empty string when the metadata is complete.
func describeMetadataProblems(ds *Dataset, files []File) string {
	var problems []string

	if strings.TrimSpace(ds.Identifier) == "" {
		problems = append(problems, "dataset has no identifier")
	}
	if strings.TrimSpace(ds.Title) == "" {
		problems = append(problems, "dataset has no title")
	}
	if len(files) == 0 {
		problems = append(problems, "dataset has no files")
	}
	for _, f := range files {
		if strings.TrimSpace(f.Path) == "" {
			problems = append(problems, fmt.Sprintf("file %s has no path", f.Identifier))
		}
		if strings.TrimSpace(f.Checksum) == "" {
			problems = append(problems, fmt.Sprintf("file %s has no checksum", f.Identifier))
		}
	}

	return strings.Join(problems, "; ")
}
