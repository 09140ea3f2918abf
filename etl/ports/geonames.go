package ports

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"marinehub.app/models"
)

const (
	FormatTSV = "tsv"
	FormatSQL = "sql"

	portFeatureCode = "PRT"
	maxLineBytes    = 64 << 20
)

// Column order of the GeoNames "geoname" table, shared by the TSV dump and the
// SQL dump when the INSERT carries no column list.
var geonameColumns = []string{
	"geonameid", "name", "asciiname", "alternatenames", "latitude", "longitude",
	"fclass", "fcode", "country", "cc2", "admin1", "admin2", "admin3", "admin4",
	"population", "elevation", "gtopo30", "timezone", "moddate",
}

// ParseGeoNames dispatches on format ("tsv" or "sql").
func ParseGeoNames(ctx context.Context, r io.Reader, format string) ([]models.Port, ParseStats, error) {
	switch format {
	case FormatTSV, "":
		return ParseGeoNamesTSV(ctx, r)
	case FormatSQL:
		return ParseGeoNamesSQL(ctx, r)
	}
	return nil, ParseStats{}, fmt.Errorf("unknown geonames format %q", format)
}

// ParseGeoNamesTSV reads the tab separated GeoNames dump and keeps PRT features.
func ParseGeoNamesTSV(ctx context.Context, r io.Reader) ([]models.Port, ParseStats, error) {
	var stats ParseStats
	var out []models.Port

	index := indexColumns(geonameColumns)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stats.Lines++
		port, ok := geonameRow(index, strings.Split(line, "\t"))
		if !ok {
			stats.Skipped++
			continue
		}
		out = append(out, port)
		stats.Kept++
	}
	if err := sc.Err(); err != nil {
		return out, stats, fmt.Errorf("geonames tsv line %d: %w", stats.Lines+1, err)
	}
	return out, stats, nil
}

var (
	insertHead = regexp.MustCompile("(?is)^\\s*INSERT\\s+INTO\\s+[`\"]?[\\w.]+[`\"]?\\s*(?:\\(([^)]*)\\))?\\s*VALUES\\s*")
	valueTuple = regexp.MustCompile(`\(((?:[^()']|'(?:[^'\\]|\\.|'')*')*)\)`)
)

// ParseGeoNamesSQL extracts the tuples of every INSERT ... VALUES statement in
// a SQL dump. Statements may span lines and must end with ';'.
func ParseGeoNamesSQL(ctx context.Context, r io.Reader) ([]models.Port, ParseStats, error) {
	var stats ParseStats
	var out []models.Port

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), maxLineBytes)

	var stmt strings.Builder
	flush := func() {
		defer stmt.Reset()
		text := stmt.String()
		head := insertHead.FindStringSubmatchIndex(text)
		if head == nil {
			return
		}
		columns := geonameColumns
		if head[2] >= 0 {
			columns = splitColumnList(text[head[2]:head[3]])
		}
		index := indexColumns(columns)
		for _, m := range valueTuple.FindAllStringSubmatch(text[head[1]:], -1) {
			stats.Lines++
			port, ok := geonameRow(index, splitTuple(m[1]))
			if !ok {
				stats.Skipped++
				continue
			}
			out = append(out, port)
			stats.Kept++
		}
	}

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if stmt.Len() == 0 && (trimmed == "" || strings.HasPrefix(trimmed, "--") || strings.HasPrefix(trimmed, "/*")) {
			continue
		}
		stmt.WriteString(line)
		stmt.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	if err := sc.Err(); err != nil {
		return out, stats, fmt.Errorf("geonames sql: %w", err)
	}
	if stmt.Len() > 0 {
		flush()
	}
	return out, stats, nil
}

func splitColumnList(raw string) []string {
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.Trim(strings.TrimSpace(p), "`\""))
	}
	return parts
}

func indexColumns(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	// Common aliases used by third-party dumps.
	for alias, canonical := range map[string]string{
		"geoname_id": "geonameid", "ascii_name": "asciiname",
		"feature_class": "fclass", "feature_code": "fcode",
		"country_code": "country", "admin1_code": "admin1",
	} {
		if i, ok := index[alias]; ok {
			if _, exists := index[canonical]; !exists {
				index[canonical] = i
			}
		}
	}
	return index
}

// splitTuple splits the inside of a VALUES tuple on commas outside quotes and
// unquotes string literals. NULL becomes "".
func splitTuple(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote, quoted := false, false

	emit := func() {
		v := cur.String()
		if !quoted {
			v = strings.TrimSpace(v)
			if strings.EqualFold(v, "NULL") {
				v = ""
			}
		}
		fields = append(fields, v)
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote && ch == '\\' && i+1 < len(s):
			i++
			cur.WriteByte(unescape(s[i]))
		case inQuote && ch == '\'' && i+1 < len(s) && s[i+1] == '\'':
			i++
			cur.WriteByte('\'')
		case ch == '\'':
			if !inQuote && !quoted {
				cur.Reset() // leading whitespace
			}
			inQuote = !inQuote
			quoted = true
		case !inQuote && ch == ',':
			emit()
		case !inQuote && quoted:
			// Whitespace after a closing quote.
		default:
			cur.WriteByte(ch)
		}
	}
	emit()
	return fields
}

func unescape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case '0':
		return 0
	}
	return b
}

func geonameRow(index map[string]int, fields []string) (models.Port, bool) {
	get := func(name string) string {
		if i, ok := index[name]; ok && i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	if !strings.EqualFold(get("fcode"), portFeatureCode) {
		return models.Port{}, false
	}
	id, err := strconv.ParseInt(get("geonameid"), 10, 64)
	if err != nil || id <= 0 {
		return models.Port{}, false
	}

	port := models.Port{
		Name:        get("name"),
		NameASCII:   get("asciiname"),
		CountryCode: get("country"),
		Subdivision: get("admin1"),
		Timezone:    get("timezone"),
		Source:      models.PortSourceGeoNames,
		GeonameID:   &id,
	}
	lat, latErr := strconv.ParseFloat(get("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(get("longitude"), 64)
	if latErr == nil && lonErr == nil {
		port.Latitude, port.Longitude = &lat, &lon
	}
	return port, true
}
