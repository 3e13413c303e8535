package config

import (
	"strings"
	"testing"
)

func validPipeline() Pipeline {
	p := Pipeline{
		Job:    "gosales",
		Source: Source{Kind: "postgres", DB: DBConfig{DSN: "postgresql://localhost/gosales"}},
		Output: Output{Kind: "sqlite", Path: "out/enriched.db"},
	}
	p.ApplyDefaults()
	return p
}

func findIssue(t *testing.T, issues []Issue, path string) Issue {
	t.Helper()
	for _, iss := range issues {
		if iss.Path == path {
			return iss
		}
	}
	t.Fatalf("no issue at %q in %v", path, issues)
	return Issue{}
}

func TestValidatePipeline_Valid(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(validPipeline()); len(issues) != 0 {
		t.Fatalf("valid pipeline produced issues: %v", issues)
	}
}

func TestValidatePipeline_MissingEssentials(t *testing.T) {
	t.Parallel()

	var p Pipeline // everything empty, no defaults applied
	issues := ValidatePipeline(p)

	for _, path := range []string{"job", "source.kind", "relations.orders", "derive.date_layout", "output.kind"} {
		iss := findIssue(t, issues, path)
		if iss.Severity != SeverityError {
			t.Errorf("%s severity = %s, want error", path, iss.Severity)
		}
	}
}

func TestValidatePipeline_UnknownKindsWarn(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Source.Kind = "oracle"
	p.Output.Kind = "parquet"

	issues := ValidatePipeline(p)
	if iss := findIssue(t, issues, "source.kind"); iss.Severity != SeverityWarning {
		t.Errorf("source.kind severity = %s, want warning", iss.Severity)
	}
	if iss := findIssue(t, issues, "output.kind"); iss.Severity != SeverityWarning {
		t.Errorf("output.kind severity = %s, want warning", iss.Severity)
	}
}

func TestValidatePipeline_DuplicateRelationNames(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Relations.Retailers = p.Relations.Orders

	issues := ValidatePipeline(p)
	iss := findIssue(t, issues, "relations.retailers")
	if iss.Severity != SeverityError {
		t.Errorf("severity = %s, want error", iss.Severity)
	}
	if !strings.Contains(iss.Message, "already used") {
		t.Errorf("message = %q", iss.Message)
	}
}

func TestValidatePipeline_EmptyDSN(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Source.DB.DSN = "   "

	iss := findIssue(t, ValidatePipeline(p), "source.db.dsn")
	if iss.Severity != SeverityError {
		t.Errorf("severity = %s, want error", iss.Severity)
	}
}

func TestValidatePipeline_SQLiteRequiresTable(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Output.Table = ""

	iss := findIssue(t, ValidatePipeline(p), "output.table")
	if iss.Severity != SeverityError {
		t.Errorf("severity = %s, want error", iss.Severity)
	}
}

func TestValidatePipeline_CSVCommaMustBeSingleRune(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Output.Kind = "csv"
	p.Output.Options = Options{"comma": "||"}

	iss := findIssue(t, ValidatePipeline(p), "output.options.comma")
	if iss.Severity != SeverityError {
		t.Errorf("severity = %s, want error", iss.Severity)
	}
}

func TestIssue_Error(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "output.path", Message: "output.path must not be empty"}
	if got, want := iss.Error(), "error at output.path: output.path must not be empty"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
