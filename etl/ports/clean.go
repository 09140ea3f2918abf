package ports

import (
	"sort"
	"strconv"
	"strings"

	"marinehub.app/models"
	"marinehub.app/pkg/slug"
)

// CleanStats summarises what Clean did to the input.
type CleanStats struct {
	Input      int
	Dropped    int // missing name or country
	BadCoords  int // coordinates cleared for being out of range
	Duplicates int
	Enriched   int // UN/LOCODE rows completed from GeoNames
	Output     int
}

// Clean normalises both sources and merges them into one row per code.
// UN/LOCODE rows win; a GeoNames row with the same country and ASCII name only
// fills gaps in the matching UN/LOCODE row. Unmatched GeoNames ports are keyed
// "GN<geonameid>". Output is sorted by code.
func Clean(unlocode, geonames []models.Port) ([]models.Port, CleanStats) {
	stats := CleanStats{Input: len(unlocode) + len(geonames)}

	byCode := make(map[string]*models.Port, len(unlocode)+len(geonames))
	byName := make(map[string]*models.Port, len(unlocode))

	for i := range unlocode {
		p := unlocode[i]
		if !normalize(&p, &stats) {
			continue
		}
		if _, dup := byCode[p.UNLocode]; dup {
			stats.Duplicates++
			continue
		}
		row := &p
		byCode[p.UNLocode] = row
		key := nameKey(p.CountryCode, p.NameASCII)
		if _, taken := byName[key]; !taken {
			byName[key] = row
		}
	}

	for i := range geonames {
		g := geonames[i]
		if !normalize(&g, &stats) {
			continue
		}
		if match, ok := byName[nameKey(g.CountryCode, g.NameASCII)]; ok {
			if enrich(match, &g) {
				stats.Enriched++
			} else {
				stats.Duplicates++
			}
			continue
		}
		if g.UNLocode == "" && g.GeonameID != nil {
			g.UNLocode = "GN" + strconv.FormatInt(*g.GeonameID, 10)
		}
		if g.UNLocode == "" {
			stats.Dropped++
			continue
		}
		if _, dup := byCode[g.UNLocode]; dup {
			stats.Duplicates++
			continue
		}
		byCode[g.UNLocode] = &g
	}

	out := make([]models.Port, 0, len(byCode))
	for _, p := range byCode {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UNLocode < out[j].UNLocode })
	stats.Output = len(out)
	return out, stats
}

// normalize trims and uppercases in place. It returns false for rows that
// cannot be stored.
func normalize(p *models.Port, stats *CleanStats) bool {
	p.Name = collapse(p.Name)
	p.NameASCII = collapse(p.NameASCII)
	p.CountryCode = strings.ToUpper(collapse(p.CountryCode))
	p.UNLocode = strings.ToUpper(strings.ReplaceAll(collapse(p.UNLocode), " ", ""))
	p.Subdivision = strings.ToUpper(collapse(p.Subdivision))
	p.IATA = strings.ToUpper(collapse(p.IATA))
	p.Status = strings.ToUpper(collapse(p.Status))
	p.Function = collapse(p.Function)
	p.Timezone = collapse(p.Timezone)

	if p.Name == "" || len(p.CountryCode) != 2 {
		stats.Dropped++
		return false
	}
	if p.NameASCII == "" {
		p.NameASCII = slug.Fold(p.Name)
	}
	if len(p.IATA) > 3 {
		p.IATA = ""
	}

	if p.Latitude != nil || p.Longitude != nil {
		if !ValidCoordinates(p.Latitude, p.Longitude) {
			p.Latitude, p.Longitude = nil, nil
			stats.BadCoords++
		}
	}
	return true
}

// ValidCoordinates requires both values and keeps them on the globe. (0, 0)
// is treated as a missing placeholder.
func ValidCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	if *lat < -90 || *lat > 90 || *lon < -180 || *lon > 180 {
		return false
	}
	return *lat != 0 || *lon != 0
}

// enrich copies the fields dst lacks from src. It reports whether anything
// changed.
func enrich(dst, src *models.Port) bool {
	changed := false
	if dst.Latitude == nil && src.Latitude != nil {
		dst.Latitude, dst.Longitude = src.Latitude, src.Longitude
		changed = true
	}
	if dst.Timezone == "" && src.Timezone != "" {
		dst.Timezone = src.Timezone
		changed = true
	}
	if dst.GeonameID == nil && src.GeonameID != nil {
		dst.GeonameID = src.GeonameID
		changed = true
	}
	return changed
}

func nameKey(country, asciiName string) string {
	return country + "|" + strings.ToLower(asciiName)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
