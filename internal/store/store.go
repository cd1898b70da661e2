// Package store holds the in-memory reference table of curated locations and
// the static name matcher that runs against it. The table is immutable after
// construction, so reads need no locking.
package store

import (
	"sort"
	"strings"

	"geosearch-api/internal/models"
)

// Match relevance scores, highest wins per record.
const (
	scoreExact     = 1.0
	scorePrefix    = 0.9
	scoreSubstring = 0.7
)

// minQueryLen is the shortest query the matcher evaluates. Shorter queries
// fan out to nearly every record and carry no signal.
const minQueryLen = 2

// Store is the read-only reference table.
type Store struct {
	records []models.LocationRecord
}

// New builds a store over the given records. The slice is owned by the store
// afterwards and must not be mutated by the caller.
func New(records []models.LocationRecord) *Store {
	return &Store{records: records}
}

// Len returns the number of reference records.
func (s *Store) Len() int {
	return len(s.records)
}

// Match scores every record against query and returns the matching rows
// ordered by relevance descending, population descending. At most limit rows
// are returned; limit <= 0 means no truncation.
func (s *Store) Match(query string, limit int) []models.LocationSearchResult {
	q := normalize(query)
	if len([]rune(q)) < minQueryLen {
		return nil
	}

	var results []models.LocationSearchResult
	for _, rec := range s.records {
		score := scoreRecord(rec, q)
		if score == 0 {
			continue
		}
		results = append(results, models.LocationSearchResult{
			Name:           rec.Name,
			DisplayName:    displayName(rec),
			Coordinates:    rec.Coordinates,
			Hierarchy:      rec.Hierarchy(),
			RelevanceScore: score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		return results[i].Hierarchy.Population > results[j].Hierarchy.Population
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// BestMatch returns the single best-scoring record for query, along with its
// relevance score. ok is false when nothing matches.
func (s *Store) BestMatch(query string) (models.LocationRecord, float64, bool) {
	q := normalize(query)
	if len([]rune(q)) < minQueryLen {
		return models.LocationRecord{}, 0, false
	}

	var (
		best      models.LocationRecord
		bestScore float64
	)
	for _, rec := range s.records {
		score := scoreRecord(rec, q)
		if score > bestScore || (score == bestScore && score > 0 && rec.Population > best.Population) {
			best = rec
			bestScore = score
		}
	}
	if bestScore == 0 {
		return models.LocationRecord{}, 0, false
	}
	return best, bestScore, true
}

// scoreRecord returns the highest score across the canonical name and all
// variants, or 0 when nothing matches.
func scoreRecord(rec models.LocationRecord, q string) float64 {
	score := scoreName(rec.Name, q)
	for _, variant := range rec.NameVariants {
		if s := scoreName(variant, q); s > score {
			score = s
		}
	}
	return score
}

func scoreName(name, q string) float64 {
	n := normalize(name)
	switch {
	case n == q:
		return scoreExact
	case strings.HasPrefix(n, q):
		return scorePrefix
	case strings.Contains(n, q):
		return scoreSubstring
	default:
		return 0
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// displayName renders "city[, district], region", skipping the district when
// it repeats the city name.
func displayName(rec models.LocationRecord) string {
	parts := []string{rec.Name}
	if rec.District != "" && !strings.EqualFold(rec.District, rec.Name) {
		parts = append(parts, rec.District)
	}
	if rec.Region != "" {
		parts = append(parts, rec.Region)
	}
	return strings.Join(parts, ", ")
}
