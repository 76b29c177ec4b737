package ranking

import (
	"testing"

	"github.com/mikepea/linky/pkg/linky/models"
	"github.com/stretchr/testify/assert"
)

func link(id, likes, dislikes uint) models.Link {
	return models.Link{ID: id, Likes: likes, Dislikes: dislikes}
}

func ids(links []models.Link) []uint {
	out := make([]uint, len(links))
	for i, l := range links {
		out[i] = l.ID
	}
	return out
}

func TestRankStable(t *testing.T) {
	// scores 1, 3, 3, 0
	in := []models.Link{
		link(1, 1, 0),
		link(2, 3, 0),
		link(3, 4, 1),
		link(4, 2, 2),
	}

	got := Rank(in)

	assert.Equal(t, []uint{2, 3, 1, 4}, ids(got))
}

func TestRankNegativeScores(t *testing.T) {
	in := []models.Link{
		link(1, 0, 5),
		link(2, 0, 0),
		link(3, 1, 3),
		link(4, 0, 0),
	}

	assert.Equal(t, []uint{2, 4, 3, 1}, ids(Rank(in)))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []models.Link{link(1, 0, 1), link(2, 1, 0)}

	Rank(in)

	assert.Equal(t, []uint{1, 2}, ids(in))
}

func TestRankEmpty(t *testing.T) {
	assert.Equal(t, []models.Link{}, Rank(nil))
}
