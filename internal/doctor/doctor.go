// Package doctor validates presgw configuration and environment.
package doctor

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"

	"github.com/dpres-tools/presgw/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

var knownScopes = map[string]struct{}{
	"*":                   {},
	"dataset:rw":          {},
	"dataset:validate":    {},
	"dataset:preserve":    {},
	"dataset:genmetadata": {},
	"events:ro":           {},
}

// Doctor validates a loaded configuration against the local environment.
type Doctor struct {
	cfg *config.Config
}

// New creates a Doctor from a loaded config.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.checkAPI(r)
	d.checkTokenScopes(r)
	d.checkCatalog(r)
	d.checkPackaging(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) checkAPI(r *Result) {
	if d.cfg.API.Listen == "" {
		d.addError(r, "api", "api.listen", "api.listen is required")
		return
	}
	if _, _, err := net.SplitHostPort(d.cfg.API.Listen); err != nil {
		d.addError(r, "api", "api.listen",
			fmt.Sprintf("api.listen %q is not host:port: %v", d.cfg.API.Listen, err))
	}
	if d.cfg.API.Auth.APIKey == "" && len(d.cfg.API.Auth.Tokens) == 0 {
		d.addError(r, "api", "api.auth", "no authentication configured")
	}
}

func (d *Doctor) checkTokenScopes(r *Result) {
	for i, tok := range d.cfg.API.Auth.Tokens {
		for _, scope := range tok.Scopes {
			if _, ok := knownScopes[scope]; !ok {
				d.addWarning(r, "auth", fmt.Sprintf("api.auth.tokens[%d]", i),
					fmt.Sprintf("unknown scope %q", scope))
			}
		}
	}
}

func (d *Doctor) checkCatalog(r *Result) {
	u, err := url.Parse(d.cfg.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		d.addError(r, "catalog", "catalog.base_url",
			fmt.Sprintf("catalog.base_url %q is not a valid URL", d.cfg.Catalog.BaseURL))
		return
	}
	if u.Scheme == "http" {
		d.addWarning(r, "catalog", "catalog.base_url",
			"catalog.base_url uses plaintext http")
	}
	if d.cfg.Catalog.InsecureSkipVerify {
		d.addWarning(r, "catalog", "catalog.insecure_skip_verify",
			"TLS certificate verification is disabled")
	}
	if d.cfg.Catalog.Token == "" {
		d.addWarning(r, "catalog", "catalog.token",
			"no catalog token configured; requests will be anonymous")
	}
}

func (d *Doctor) checkPackaging(r *Result) {
	if d.cfg.Packaging.Command == "" {
		d.addError(r, "packaging", "packaging.command", "packaging.command is required")
		return
	}
	if _, err := exec.LookPath(d.cfg.Packaging.Command); err != nil {
		d.addError(r, "packaging", "packaging.command",
			fmt.Sprintf("packaging command %q not found: %v", d.cfg.Packaging.Command, err))
	}
	if d.cfg.Packaging.WorkDir != "" {
		info, err := os.Stat(d.cfg.Packaging.WorkDir)
		if err != nil {
			d.addError(r, "packaging", "packaging.workdir",
				fmt.Sprintf("workdir %q not accessible: %v", d.cfg.Packaging.WorkDir, err))
		} else if !info.IsDir() {
			d.addError(r, "packaging", "packaging.workdir",
				fmt.Sprintf("workdir %q is not a directory", d.cfg.Packaging.WorkDir))
		}
	}
}
