package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gameshot-quiz-service/internal/domain"
)

// RawEntry is a catalog record as found in exported datasets. Genres may be a JSON
// array or a string holding a serialized list, and ids may be numbers or strings.
type RawEntry struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      float64         `json:"rating"`
	Genres      json.RawMessage `json:"genres"`
	Screenshots []string        `json:"screenshots"`
}

// Report summarizes what NormalizeEntries dropped.
type Report struct {
	Kept            int
	NoScreenshots   int
	DuplicateNames  int
	MissingNameOrID int
}

// NormalizeEntries converts raw records into catalog entries. Records without
// screenshots, without a name or id, or repeating an earlier name are dropped.
func NormalizeEntries(raw []RawEntry) ([]domain.CatalogEntry, Report) {
	var rep Report
	seen := make(map[string]struct{}, len(raw))
	out := make([]domain.CatalogEntry, 0, len(raw))
	for _, r := range raw {
		id := rawID(r.ID)
		name := strings.TrimSpace(r.Name)
		if id == "" || name == "" {
			rep.MissingNameOrID++
			continue
		}
		shots := nonEmpty(r.Screenshots)
		if len(shots) == 0 {
			rep.NoScreenshots++
			continue
		}
		if _, dup := seen[name]; dup {
			rep.DuplicateNames++
			continue
		}
		seen[name] = struct{}{}
		out = append(out, domain.CatalogEntry{
			ID:          id,
			Name:        name,
			Year:        r.Year,
			Rating:      r.Rating,
			Genres:      rawGenres(r.Genres),
			Screenshots: shots,
		})
	}
	rep.Kept = len(out)
	return out, rep
}

// DecodeRawEntries parses a JSON array of raw records.
func DecodeRawEntries(data []byte) ([]RawEntry, error) {
	var raw []RawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return raw, nil
}

func rawID(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return ""
}

func rawGenres(msg json.RawMessage) []string {
	if len(msg) == 0 || string(msg) == "null" {
		return nil
	}
	var labels []string
	if err := json.Unmarshal(msg, &labels); err == nil {
		return NormalizeGenres(labels)
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return ParseGenres(s)
	}
	return nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
