// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "source.kind",
// "output.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline; run ApplyDefaults first if optional fields
// should be filled in before checking. It returns a slice of Issue values, and
// callers may decide whether to treat warnings as fatal or not.
//
// Example:
//
//	var p config.Pipeline
//	if err := json.NewDecoder(r).Decode(&p); err != nil { ... }
//	p.ApplyDefaults()
//	issues := config.ValidatePipeline(p)
//	for _, iss := range issues {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	// Top-level pipeline checks.
	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateRelations(p.Relations)...)
	issues = append(issues, validateDerive(p.Derive)...)
	issues = append(issues, validateOutput(p.Output)...)

	return issues
}

// validateSource validates Source configuration.
func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
		return issues
	}

	// Known source kinds. Unknown kinds are warnings (for forward compatibility).
	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.db.dsn",
			Message:  "source.db.dsn must not be empty",
		})
	}

	return issues
}

// validateRelations checks the three input relation names for emptiness and
// accidental duplication.
func validateRelations(r Relations) []Issue {
	var issues []Issue

	names := []struct {
		path, value string
	}{
		{"relations.orders", r.Orders},
		{"relations.products", r.Products},
		{"relations.retailers", r.Retailers},
	}
	seen := map[string]string{}
	for _, n := range names {
		if strings.TrimSpace(n.value) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     n.path,
				Message:  "relation name must not be empty",
			})
			continue
		}
		if prev, ok := seen[n.value]; ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     n.path,
				Message:  fmt.Sprintf("relation name %q already used by %s", n.value, prev),
			})
			continue
		}
		seen[n.value] = n.path
	}

	return issues
}

// validateDerive checks the derivation settings.
func validateDerive(d Derive) []Issue {
	var issues []Issue

	if strings.TrimSpace(d.DateLayout) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "derive.date_layout",
			Message:  "derive.date_layout must not be empty; use a Go reference layout such as 2006-01-02",
		})
	}

	return issues
}

// validateOutput validates the artifact writer configuration.
func validateOutput(o Output) []Issue {
	var issues []Issue

	if strings.TrimSpace(o.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  "output.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"sqlite": {},
		"csv":    {},
	}
	if _, ok := known[o.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unknown output kind %q; ensure a matching writer is registered", o.Kind),
		})
	}

	if strings.TrimSpace(o.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.path",
			Message:  "output.path must not be empty",
		})
	}

	// Writer-specific checks.
	switch o.Kind {
	case "sqlite":
		if strings.TrimSpace(o.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.table",
				Message:  "sqlite output requires a non-empty table name",
			})
		}
	case "csv":
		if comma := o.Options.String("comma", ","); len([]rune(comma)) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "output.options.comma",
				Message:  fmt.Sprintf("csv comma must be a single character, got %q", comma),
			})
		}
	}

	return issues
}
