package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikepea/linky/pkg/linky/models"
	"gorm.io/gorm"
)

// VoteLog persists the append-only list of vote records
type VoteLog struct {
	db *gorm.DB
}

// NewVoteLog creates a vote log on db
func NewVoteLog(db *gorm.DB) *VoteLog {
	return &VoteLog{db: db}
}

// List returns every vote record, oldest first
func (l *VoteLog) List(ctx context.Context) ([]models.Vote, error) {
	votes := []models.Vote{}
	if err := l.db.WithContext(ctx).Order("timestamp ASC, id ASC").Find(&votes).Error; err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return votes, nil
}

// ListForLink returns the vote records of one link, oldest first
func (l *VoteLog) ListForLink(ctx context.Context, linkID uint) ([]models.Vote, error) {
	votes := []models.Vote{}
	err := l.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("timestamp ASC, id ASC").
		Find(&votes).Error
	if err != nil {
		return nil, fmt.Errorf("list votes for link %d: %w", linkID, err)
	}
	return votes, nil
}

// Append adds a record to the log
func (l *VoteLog) Append(ctx context.Context, vote *models.Vote) error {
	if !vote.VoteType.Valid() {
		return ErrInvalidVoteType
	}
	if err := l.db.WithContext(ctx).Create(vote).Error; err != nil {
		return fmt.Errorf("append vote: %w", err)
	}
	return nil
}

// RemoveMostRecent deletes the newest record for linkID and returns it.
// Equal timestamps are resolved in favour of the last appended record.
func (l *VoteLog) RemoveMostRecent(ctx context.Context, linkID uint) (models.Vote, error) {
	var vote models.Vote
	err := l.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("timestamp DESC, id DESC").
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return vote, ErrNoVotes
	}
	if err != nil {
		return vote, fmt.Errorf("find latest vote for link %d: %w", linkID, err)
	}

	if err := l.db.WithContext(ctx).Delete(&models.Vote{}, vote.ID).Error; err != nil {
		return vote, fmt.Errorf("remove vote %d: %w", vote.ID, err)
	}
	return vote, nil
}

type voteCount struct {
	LinkID   uint
	VoteType models.VoteType
	N        uint
}

// counts tallies records per link and vote type
func (l *VoteLog) counts(ctx context.Context) ([]voteCount, error) {
	var rows []voteCount
	err := l.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("link_id, vote_type, COUNT(*) AS n").
		Group("link_id, vote_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count votes: %w", err)
	}
	return rows, nil
}
