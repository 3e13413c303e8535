// Package all wires every built-in artifact writer into the sink factory.
// Importing it (usually blank) registers the "sqlite" and "csv" output kinds.
package all

import (
	_ "github.com/niarepo/gosales-etl/internal/sink/csvfile"
	_ "github.com/niarepo/gosales-etl/internal/sink/sqlite"
)
