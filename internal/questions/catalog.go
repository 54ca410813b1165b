// Package questions exposes the fixed post-practice feedback catalog. The
// catalog file is seed data shipped with the deployment; the application
// never writes it.
package questions

import (
	"sort"

	"github.com/clubpulse/internal/domain"
	"github.com/clubpulse/internal/jsonstore"
)

// catalogSize is the expected number of questions, with orders 1..catalogSize.
const catalogSize = 4

// Catalog loads feedback questions from the repository.
type Catalog struct {
	repo *jsonstore.Repository
}

// NewCatalog creates a catalog over the given repository.
func NewCatalog(repo *jsonstore.Repository) *Catalog {
	return &Catalog{repo: repo}
}

// Load returns the catalog sorted ascending by order.
func (c *Catalog) Load() ([]domain.Question, error) {
	qs, err := c.repo.Questions()
	if err != nil {
		return nil, err
	}
	sort.Slice(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	return qs, nil
}

// ByID returns the question with the given id, if present.
func (c *Catalog) ByID(id string) (domain.Question, bool, error) {
	qs, err := c.Load()
	if err != nil {
		return domain.Question{}, false, err
	}
	for _, q := range qs {
		if q.ID == id {
			return q, true, nil
		}
	}
	return domain.Question{}, false, nil
}

// Validate reports whether the catalog holds exactly four questions with
// orders 1..4. The check is advisory: request paths validate submissions
// against the ids actually present, not against this invariant.
func (c *Catalog) Validate() bool {
	qs, err := c.Load()
	if err != nil {
		return false
	}
	if len(qs) != catalogSize {
		return false
	}
	seen := make(map[int]bool, catalogSize)
	for _, q := range qs {
		seen[q.Order] = true
	}
	for order := 1; order <= catalogSize; order++ {
		if !seen[order] {
			return false
		}
	}
	return true
}
