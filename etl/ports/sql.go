package ports

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"marinehub.app/models"
)

// DefaultBatchSize is the number of rows per INSERT.
const DefaultBatchSize = 500

var insertColumns = []string{
	"unlocode", "name", "name_ascii", "country_code", "subdivision",
	"latitude", "longitude", "function", "status", "iata", "timezone",
	"source", "geoname_id", "created_at", "updated_at",
}

// Columns refreshed on conflict. created_at keeps its first value.
var upsertColumns = []string{
	"name", "name_ascii", "country_code", "subdivision", "latitude", "longitude",
	"function", "status", "iata", "timezone", "source", "geoname_id",
}

// Chunk splits items into consecutive slices of at most size elements. A
// non-positive size falls back to DefaultBatchSize.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultBatchSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}

// Statement is one rendered batch.
type Statement struct {
	Index int // 1-based
	Rows  int
	SQL   string
}

// RenderBatches chunks rows and renders one upsert per chunk.
func RenderBatches(rows []models.Port, size int) []Statement {
	chunks := Chunk(rows, size)
	out := make([]Statement, len(chunks))
	for i, chunk := range chunks {
		out[i] = Statement{Index: i + 1, Rows: len(chunk), SQL: RenderInsert(chunk)}
	}
	return out
}

// RenderInsert builds a single multi-row INSERT ... ON CONFLICT (unlocode)
// DO UPDATE statement. Values are inlined as escaped literals.
func RenderInsert(rows []models.Port) string {
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ports (")
	b.WriteString(strings.Join(insertColumns, ", "))
	b.WriteString(") VALUES\n")

	for i, p := range rows {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString("(")
		b.WriteString(strings.Join([]string{
			quote(p.UNLocode),
			quote(p.Name),
			quote(p.NameASCII),
			quote(p.CountryCode),
			quote(p.Subdivision),
			floatLiteral(p.Latitude),
			floatLiteral(p.Longitude),
			quote(p.Function),
			quote(p.Status),
			quote(p.IATA),
			quote(p.Timezone),
			quote(p.Source),
			intLiteral(p.GeonameID),
			"NOW()",
			"NOW()",
		}, ", "))
		b.WriteString(")")
	}

	b.WriteString("\nON CONFLICT (unlocode) DO UPDATE SET ")
	sets := make([]string, 0, len(upsertColumns)+1)
	for _, c := range upsertColumns {
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	sets = append(sets, "updated_at = NOW()")
	b.WriteString(strings.Join(sets, ", "))
	b.WriteString(";\n")
	return b.String()
}

// quote renders a standard-conforming string literal. NUL bytes are not
// allowed in Postgres text and are dropped.
func quote(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func floatLiteral(v *float64) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func intLiteral(v *int64) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatInt(*v, 10)
}

// BatchFileName is the file name used for the n-th batch.
func BatchFileName(n int) string {
	return fmt.Sprintf("ports_batch_%04d.sql", n)
}

// WriteBatchFiles writes one file per statement into dir and returns the paths.
func WriteBatchFiles(dir string, stmts []Statement) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(stmts))
	for _, st := range stmts {
		path := filepath.Join(dir, BatchFileName(st.Index))
		if err := os.WriteFile(path, []byte(st.SQL), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
