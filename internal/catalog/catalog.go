// internal/catalog/catalog.go

// Package catalog maps place names to taxi zone ids and shopping categories to
// candidate stores.
package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"trip-concierge/internal/models"
)

// Catalog is the read-only lookup used by the journey planner and dispatcher.
type Catalog interface {
	Stores(t models.StoreType) []models.StoreCandidate
	ZoneID(place string) (int, bool)
	ZoneName(id int) string
	EnhanceQuery(query string) string
}

// Zone is one place-name alias for a zone id.
type Zone struct {
	Alias      string
	LocationID int
}

// Snapshot is an immutable in-memory Catalog.
type Snapshot struct {
	aliases   []Zone
	byAlias   map[string]int
	names     map[int]string
	stores    map[models.StoreType][]models.StoreCandidate
	aliasExpr []*regexp.Regexp
}

// NewSnapshot builds a Snapshot. Alias order is kept for EnhanceQuery.
func NewSnapshot(aliases []Zone, names map[int]string, stores map[models.StoreType][]models.StoreCandidate) *Snapshot {
	s := &Snapshot{
		aliases: make([]Zone, 0, len(aliases)),
		byAlias: make(map[string]int, len(aliases)),
		names:   make(map[int]string, len(names)),
		stores:  make(map[models.StoreType][]models.StoreCandidate, len(stores)),
	}
	for _, z := range aliases {
		alias := normalize(z.Alias)
		if alias == "" {
			continue
		}
		if _, dup := s.byAlias[alias]; dup {
			continue
		}
		s.aliases = append(s.aliases, Zone{Alias: alias, LocationID: z.LocationID})
		s.byAlias[alias] = z.LocationID
		s.aliasExpr = append(s.aliasExpr, regexp.MustCompile(`\b`+regexp.QuoteMeta(alias)+`\b`))
	}
	for id, name := range names {
		s.names[id] = name
	}
	for t, list := range stores {
		s.stores[t] = append([]models.StoreCandidate(nil), list...)
	}
	return s
}

// Stores returns a copy of the candidate stores for a category.
func (s *Snapshot) Stores(t models.StoreType) []models.StoreCandidate {
	return append([]models.StoreCandidate(nil), s.stores[t]...)
}

// ZoneID resolves a place name (case and surrounding space insensitive).
func (s *Snapshot) ZoneID(place string) (int, bool) {
	id, ok := s.byAlias[normalize(place)]
	return id, ok
}

// ZoneName returns the official zone label, or "Location <id>" when unknown.
func (s *Snapshot) ZoneName(id int) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return fmt.Sprintf("Location %d", id)
}

// EnhanceQuery appends a zone-id hint line for every known place mentioned in query.
func (s *Snapshot) EnhanceQuery(query string) string {
	lower := strings.ToLower(query)
	var b strings.Builder
	b.WriteString(query)
	for i, z := range s.aliases {
		if s.aliasExpr[i].MatchString(lower) {
			fmt.Fprintf(&b, "\n[Hint: %q is LocationID %d]", z.Alias, z.LocationID)
		}
	}
	return b.String()
}

// ZoneCount and StoreCount report sizes for logging.
func (s *Snapshot) ZoneCount() int { return len(s.aliases) }

func (s *Snapshot) StoreCount() int {
	n := 0
	for _, list := range s.stores {
		n += len(list)
	}
	return n
}

func normalize(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}
