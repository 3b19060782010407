package catalog

import (
	"fmt"
	"sync"

	"gameshot-quiz-service/internal/domain"
)

// DefaultOptionCount is used when callers ask for zero or fewer options.
const DefaultOptionCount = 4

// Rand is the random source used by the selector. *math/rand.Rand satisfies it;
// Shuffle must be a uniform (Fisher-Yates) shuffle.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// SelectorConfig holds the selection thresholds.
type SelectorConfig struct {
	MinYear       int
	MaxYear       int
	HighRating    float64 // first relaxation tier
	RelaxedRating float64 // second relaxation tier and decoy fallback
}

// DefaultSelectorConfig returns the reference thresholds.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		MinYear:       1980,
		MaxYear:       2024,
		HighRating:    82,
		RelaxedRating: 80,
	}
}

// Selector picks round content from a catalog. It is safe for concurrent use.
type Selector struct {
	catalog *Catalog
	cfg     SelectorConfig

	mu  sync.Mutex
	rng Rand
}

func NewSelector(cat *Catalog, rng Rand, cfg SelectorConfig) *Selector {
	def := DefaultSelectorConfig()
	if cfg.MinYear == 0 && cfg.MaxYear == 0 {
		cfg.MinYear, cfg.MaxYear = def.MinYear, def.MaxYear
	}
	if cfg.MinYear > cfg.MaxYear {
		cfg.MinYear, cfg.MaxYear = cfg.MaxYear, cfg.MinYear
	}
	if cfg.HighRating == 0 && cfg.RelaxedRating == 0 {
		cfg.HighRating, cfg.RelaxedRating = def.HighRating, def.RelaxedRating
	}
	return &Selector{catalog: cat, cfg: cfg, rng: rng}
}

// SelectRound picks a correct entry, one of its screenshots and up to optionCount-1 decoys.
// Fewer options are returned only when the whole catalog is smaller than optionCount.
func (s *Selector) SelectRound(optionCount int) (domain.RoundContent, error) {
	if optionCount <= 0 {
		optionCount = DefaultOptionCount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.candidatePool(optionCount)
	if len(pool) == 0 {
		return domain.RoundContent{}, domain.ErrEmptyCatalog
	}

	correctIx := pool[s.rng.Intn(len(pool))]
	correct := s.catalog.entries[correctIx]
	if len(correct.Screenshots) == 0 {
		return domain.RoundContent{}, fmt.Errorf("%w: entry %s", domain.ErrNoScreenshot, correct.ID)
	}
	screenshot := correct.Screenshots[s.rng.Intn(len(correct.Screenshots))]

	decoys := s.pickDecoys(correctIx, optionCount-1)
	options := make([]string, 0, len(decoys)+1)
	options = append(options, correct.Name)
	for _, ix := range decoys {
		options = append(options, s.catalog.entries[ix].Name)
	}
	s.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return domain.RoundContent{
		CorrectEntryID: correct.ID,
		ScreenshotRef:  screenshot,
		Options:        options,
		CorrectAnswer:  correct.Name,
	}, nil
}

// candidatePool returns the first tier holding at least optionCount entries: the random
// target year, then high rated, then relaxed rating. When every tier is short the
// largest non-empty one wins.
func (s *Selector) candidatePool(optionCount int) []int {
	targetYear := s.cfg.MinYear + s.rng.Intn(s.cfg.MaxYear-s.cfg.MinYear+1)

	tiers := []func(e domain.CatalogEntry) bool{
		func(e domain.CatalogEntry) bool { return e.Year == targetYear },
		func(e domain.CatalogEntry) bool { return e.Rating >= s.cfg.HighRating },
		func(e domain.CatalogEntry) bool { return e.Rating >= s.cfg.RelaxedRating },
	}

	var best []int
	for _, match := range tiers {
		pool := s.filter(match)
		if len(pool) >= optionCount {
			return pool
		}
		if len(pool) > len(best) {
			best = pool
		}
	}
	return best
}

func (s *Selector) filter(match func(e domain.CatalogEntry) bool) []int {
	var out []int
	for i, e := range s.catalog.entries {
		if match(e) {
			out = append(out, i)
		}
	}
	return out
}

// pickDecoys walks the similarity tiers until need decoys are gathered.
func (s *Selector) pickDecoys(correctIx, need int) []int {
	if need <= 0 {
		return nil
	}
	cat := s.catalog
	correct := cat.entries[correctIx]
	within := func(i, years int) bool {
		d := cat.entries[i].Year - correct.Year
		return d >= -years && d <= years
	}

	tiers := []func(i int) bool{
		func(i int) bool { return cat.sharesGenre(correctIx, i) && within(i, 3) },
		func(i int) bool { return cat.sharesBucket(correctIx, i) && within(i, 5) },
		func(i int) bool { return within(i, 10) },
		func(i int) bool { return cat.entries[i].Rating >= s.cfg.RelaxedRating },
		func(i int) bool { return true },
	}

	usedNames := map[string]struct{}{correct.Name: {}}
	picked := make([]int, 0, need)
	for _, match := range tiers {
		var candidates []int
		for i, e := range cat.entries {
			if _, used := usedNames[e.Name]; used {
				continue
			}
			if match(i) {
				candidates = append(candidates, i)
			}
		}
		s.rng.Shuffle(len(candidates), func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})
		for _, i := range candidates {
			if len(picked) == need {
				break
			}
			picked = append(picked, i)
			usedNames[cat.entries[i].Name] = struct{}{}
		}
		if len(picked) == need {
			break
		}
	}
	return picked
}
