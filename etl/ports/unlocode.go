// Package ports turns UN/LOCODE and GeoNames extracts into batched upserts for
// the ports table.
package ports

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"marinehub.app/models"

	"golang.org/x/text/encoding/charmap"
)

// UN/LOCODE code list columns.
const (
	colChange = iota
	colCountry
	colLocation
	colName
	colNameASCII
	colSubdivision
	colStatus
	colFunction
	colDate
	colIATA
	colCoordinates
	colRemarks
)

// UNLocodeOptions tunes the code list reader.
type UNLocodeOptions struct {
	// Latin1 decodes ISO-8859-1 input, the encoding of the official CSV release.
	Latin1 bool
}

// ParseStats counts what a parser saw.
type ParseStats struct {
	Lines   int
	Kept    int
	Skipped int
}

// ParseUNLocode reads a UN/LOCODE code list and keeps the locations whose
// function classifier marks them as a port. It stops with ctx.Err() once ctx
// is done.
func ParseUNLocode(ctx context.Context, r io.Reader, opts UNLocodeOptions) ([]models.Port, ParseStats, error) {
	var stats ParseStats
	if opts.Latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var out []models.Port
	for {
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, stats, fmt.Errorf("unlocode line %d: %w", stats.Lines+1, err)
		}
		stats.Lines++

		port, ok := unlocodeRecord(rec)
		if !ok {
			stats.Skipped++
			continue
		}
		out = append(out, port)
		stats.Kept++
	}
	return out, stats, nil
}

func unlocodeRecord(rec []string) (models.Port, bool) {
	if len(rec) < colCoordinates {
		return models.Port{}, false
	}
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	// Country header rows have no location and a ".NAME" entry.
	country, location := field(colCountry), field(colLocation)
	if country == "" || location == "" {
		return models.Port{}, false
	}
	// "X" marks entries scheduled for removal.
	if strings.EqualFold(field(colChange), "X") {
		return models.Port{}, false
	}
	if !IsPortFunction(field(colFunction)) {
		return models.Port{}, false
	}

	port := models.Port{
		UNLocode:    country + location,
		Name:        field(colName),
		NameASCII:   field(colNameASCII),
		CountryCode: country,
		Subdivision: field(colSubdivision),
		Function:    field(colFunction),
		Status:      field(colStatus),
		IATA:        field(colIATA),
		Source:      models.PortSourceUNLocode,
	}
	if lat, lon, ok := ParseCoordinates(field(colCoordinates)); ok {
		port.Latitude, port.Longitude = &lat, &lon
	}
	return port, true
}

// IsPortFunction reports whether the function classifier has '1' (port) in
// its first position, e.g. "1-3-----".
func IsPortFunction(function string) bool {
	return len(function) > 0 && function[0] == '1'
}

// ParseCoordinates converts "DDMM[NS] DDDMM[EW]" into decimal degrees.
func ParseCoordinates(raw string) (lat, lon float64, ok bool) {
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, ok = parseDegreesMinutes(parts[0], 2, 'N', 'S')
	if !ok {
		return 0, 0, false
	}
	lon, ok = parseDegreesMinutes(parts[1], 3, 'E', 'W')
	if !ok {
		return 0, 0, false
	}
	return lat, lon, true
}

func parseDegreesMinutes(s string, degDigits int, pos, neg byte) (float64, bool) {
	if len(s) != degDigits+3 {
		return 0, false
	}
	hemi := s[len(s)-1]
	if hemi != pos && hemi != neg {
		return 0, false
	}
	deg, err := strconv.Atoi(s[:degDigits])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(s[degDigits : degDigits+2])
	if err != nil || minutes >= 60 {
		return 0, false
	}
	v := float64(deg) + float64(minutes)/60
	if hemi == neg {
		v = -v
	}
	return v, true
}
