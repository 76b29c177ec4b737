package models

import "time"

// VoteType is the kind of vote cast on a link
type VoteType string

const (
	VoteTypeLike    VoteType = "like"
	VoteTypeDislike VoteType = "dislike"
)

// Valid reports whether t is one of the known vote types
func (t VoteType) Valid() bool {
	return t == VoteTypeLike || t == VoteTypeDislike
}

// Vote is one entry in the append-only vote log.
// LinkID is not a foreign key; imported logs may reference links that no longer exist.
type Vote struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	LinkID    uint      `gorm:"not null;index:idx_votes_link_time" json:"link_id"`
	VoteType  VoteType  `gorm:"type:varchar(10);not null" json:"vote_type"`
	Timestamp time.Time `gorm:"not null;index:idx_votes_link_time" json:"timestamp"`
}
