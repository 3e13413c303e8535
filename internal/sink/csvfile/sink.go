// Package csvfile writes the final relation as a single CSV file: a header
// row with the declared column order, then one line per record. Like the
// SQLite writer it builds <path>.tmp and renames on success only.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/niarepo/gosales-etl/internal/relation"
	"github.com/niarepo/gosales-etl/internal/sink"
)

// DateLayout is how time.Time values are rendered.
const DateLayout = "2006-01-02"

func init() {
	sink.Register("csv", func(cfg sink.Config) (sink.Writer, error) {
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("csv sink: path must not be empty")
		}
		comma := ','
		if v, ok := cfg.Options["comma"].(string); ok && v != "" {
			comma = []rune(v)[0]
		}
		return &Writer{path: cfg.Path, comma: comma}, nil
	})
}

// Writer is the CSV artifact writer.
type Writer struct {
	path  string
	comma rune
}

// Write persists the relation.
func (w *Writer) Write(ctx context.Context, rel *relation.Relation) error {
	tmp := w.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("csv sink: create: %w", err)
	}

	if err := w.writeAll(ctx, f, rel); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("csv sink: close: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("csv sink: finalize: %w", err)
	}
	return nil
}

func (w *Writer) writeAll(ctx context.Context, f *os.File, rel *relation.Relation) error {
	cw := csv.NewWriter(f)
	cw.Comma = w.comma

	if err := cw.Write(rel.Columns); err != nil {
		return fmt.Errorf("csv sink: header: %w", err)
	}
	line := make([]string, len(rel.Columns))
	for _, row := range rel.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i, c := range rel.Columns {
			line[i] = renderValue(row[c])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("csv sink: row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv sink: flush: %w", err)
	}
	return nil
}

// renderValue formats a pipeline value as CSV text; nil renders empty.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(DateLayout)
	default:
		return fmt.Sprint(t)
	}
}
