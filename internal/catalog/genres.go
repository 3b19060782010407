package catalog

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// Coarse genre buckets used by the second decoy tier.
const (
	BucketAction     = "Action"
	BucketStrategy   = "Strategy"
	BucketRPG        = "RPG"
	BucketAdventure  = "Adventure"
	BucketSports     = "Sports"
	BucketPuzzle     = "Puzzle"
	BucketSimulation = "Simulation"
	BucketMusic      = "Music"
	BucketOther      = "Other"
)

// genreSynonyms folds raw genre labels (lower-cased) onto canonical tags.
var genreSynonyms = map[string]string{
	"role-playing (rpg)":          "RPG",
	"role-playing":                "RPG",
	"role playing":                "RPG",
	"rpg":                         "RPG",
	"real time strategy (rts)":    "RTS",
	"real-time strategy":          "RTS",
	"rts":                         "RTS",
	"turn-based strategy (tbs)":   "TBS",
	"turn-based strategy":         "TBS",
	"tbs":                         "TBS",
	"hack and slash/beat 'em up":  "Hack and Slash",
	"hack and slash":              "Hack and Slash",
	"beat 'em up":                 "Hack and Slash",
	"point-and-click":             "Point-and-Click",
	"point and click":             "Point-and-Click",
	"simulator":                   "Simulation",
	"simulation":                  "Simulation",
	"sport":                       "Sports",
	"sports":                      "Sports",
	"racing":                      "Racing",
	"platform":                    "Platform",
	"platformer":                  "Platform",
	"shooter":                     "Shooter",
	"fighting":                    "Fighting",
	"arcade":                      "Arcade",
	"action":                      "Action",
	"adventure":                   "Adventure",
	"strategy":                    "Strategy",
	"tactical":                    "Tactical",
	"puzzle":                      "Puzzle",
	"quiz/trivia":                 "Trivia",
	"card & board game":           "Card & Board Game",
	"music":                       "Music",
	"visual novel":                "Visual Novel",
	"indie":                       "Indie",
	"moba":                        "MOBA",
	"pinball":                     "Pinball",
}

var genreBuckets = map[string]string{
	"Platform":          BucketAction,
	"Shooter":           BucketAction,
	"Fighting":          BucketAction,
	"Action":            BucketAction,
	"Arcade":            BucketAction,
	"Hack and Slash":    BucketAction,
	"Pinball":           BucketAction,
	"Strategy":          BucketStrategy,
	"RTS":               BucketStrategy,
	"TBS":               BucketStrategy,
	"Tactical":          BucketStrategy,
	"MOBA":              BucketStrategy,
	"RPG":               BucketRPG,
	"Adventure":         BucketAdventure,
	"Point-and-Click":   BucketAdventure,
	"Visual Novel":      BucketAdventure,
	"Sports":            BucketSports,
	"Racing":            BucketSports,
	"Puzzle":            BucketPuzzle,
	"Trivia":            BucketPuzzle,
	"Card & Board Game": BucketPuzzle,
	"Simulation":        BucketSimulation,
	"Music":             BucketMusic,
}

var quotedToken = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)

// NormalizeGenre maps a raw label onto its canonical tag. Unknown labels are kept, trimmed.
func NormalizeGenre(raw string) string {
	g := strings.TrimSpace(raw)
	if g == "" {
		return ""
	}
	if canonical, ok := genreSynonyms[strings.ToLower(g)]; ok {
		return canonical
	}
	return g
}

// Bucket returns the coarse category of a normalized genre.
func Bucket(genre string) string {
	if b, ok := genreBuckets[genre]; ok {
		return b
	}
	return BucketOther
}

// ParseGenres turns a stored genre field into a sorted, de-duplicated list of normalized tags.
// Accepted forms: a JSON array, a Python-style list with single quotes, or a comma separated string.
func ParseGenres(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}

	var labels []string
	if err := json.Unmarshal([]byte(raw), &labels); err != nil {
		labels = nil
		if strings.HasPrefix(raw, "[") {
			for _, m := range quotedToken.FindAllStringSubmatch(raw, -1) {
				if m[1] != "" {
					labels = append(labels, m[1])
				} else {
					labels = append(labels, m[2])
				}
			}
		}
		if len(labels) == 0 {
			labels = strings.Split(strings.Trim(raw, "[]"), ",")
		}
	}
	return NormalizeGenres(labels)
}

// NormalizeGenres normalizes, de-duplicates and sorts a list of labels.
func NormalizeGenres(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		g := NormalizeGenre(strings.Trim(l, `'" `))
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
