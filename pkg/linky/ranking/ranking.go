// Package ranking orders links by score.
package ranking

import (
	"cmp"
	"slices"

	"github.com/mikepea/linky/pkg/linky/models"
)

// Rank returns a copy of links sorted by score (likes - dislikes), highest first.
// The sort is stable: links with equal scores keep their input order.
func Rank(links []models.Link) []models.Link {
	out := slices.Clone(links)
	if out == nil {
		out = []models.Link{}
	}
	slices.SortStableFunc(out, func(a, b models.Link) int {
		return cmp.Compare(b.Score(), a.Score())
	})
	return out
}
