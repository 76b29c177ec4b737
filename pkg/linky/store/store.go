// Package store keeps links and their vote log in SQLite.
//
// Every mutation that touches both a link's counters and the vote log runs in
// one transaction, so the counters always equal the number of matching vote
// records. Links and votes imported from legacy flat files are reconciled on
// import.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mikepea/linky/pkg/linky/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Clock supplies vote timestamps
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Store composes the link store and the vote log
type Store struct {
	db    *gorm.DB
	clock Clock

	Links *LinkStore
	Votes *VoteLog
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used to stamp votes
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates a store on db
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		clock: realClock{},
		Links: NewLinkStore(db),
		Votes: NewVoteLog(db),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// tx runs fn with a link store and vote log bound to one transaction
func (s *Store) tx(ctx context.Context, fn func(links *LinkStore, votes *VoteLog) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewLinkStore(tx), NewVoteLog(tx))
	})
}

// AddVote records a vote on a link and bumps the matching counter.
// The link is checked before the vote type; nothing is written on error.
func (s *Store) AddVote(ctx context.Context, linkID uint, voteType models.VoteType) (models.Link, error) {
	var link models.Link
	err := s.tx(ctx, func(links *LinkStore, votes *VoteLog) error {
		if _, err := links.Get(ctx, linkID); err != nil {
			return err
		}
		if !voteType.Valid() {
			return ErrInvalidVoteType
		}

		if err := links.adjust(ctx, linkID, voteType, 1); err != nil {
			return err
		}
		vote := models.Vote{
			LinkID:    linkID,
			VoteType:  voteType,
			Timestamp: s.now(),
		}
		if err := votes.Append(ctx, &vote); err != nil {
			return err
		}

		var err error
		link, err = links.Get(ctx, linkID)
		return err
	})
	return link, err
}

// RemoveVote deletes the most recent vote on a link and decrements the
// counter for that vote's type, floored at zero. It returns the updated link
// and the removed record.
func (s *Store) RemoveVote(ctx context.Context, linkID uint) (models.Link, models.Vote, error) {
	var link models.Link
	var removed models.Vote
	err := s.tx(ctx, func(links *LinkStore, votes *VoteLog) error {
		if _, err := links.Get(ctx, linkID); err != nil {
			return err
		}

		var err error
		removed, err = votes.RemoveMostRecent(ctx, linkID)
		if err != nil {
			return err
		}
		if err := links.adjust(ctx, linkID, removed.VoteType, -1); err != nil {
			return err
		}

		link, err = links.Get(ctx, linkID)
		return err
	})
	return link, removed, err
}

// Reconcile rewrites every link's counters from the vote log and returns
// how many links changed.
func (s *Store) Reconcile(ctx context.Context) (int, error) {
	changed := 0
	err := s.tx(ctx, func(links *LinkStore, votes *VoteLog) error {
		var err error
		changed, err = reconcile(ctx, links, votes)
		return err
	})
	return changed, err
}

func reconcile(ctx context.Context, links *LinkStore, votes *VoteLog) (int, error) {
	all, err := links.List(ctx)
	if err != nil {
		return 0, err
	}
	counts, err := votes.counts(ctx)
	if err != nil {
		return 0, err
	}

	type tally struct{ likes, dislikes uint }
	tallies := make(map[uint]tally, len(all))
	for _, c := range counts {
		t := tallies[c.LinkID]
		switch c.VoteType {
		case models.VoteTypeLike:
			t.likes += c.N
		case models.VoteTypeDislike:
			t.dislikes += c.N
		}
		tallies[c.LinkID] = t
	}

	changed := 0
	for i := range all {
		link := &all[i]
		t := tallies[link.ID]
		if link.Likes == t.likes && link.Dislikes == t.dislikes {
			continue
		}
		link.Likes, link.Dislikes = t.likes, t.dislikes
		if err := links.Update(ctx, link); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// ImportOptions controls Import
type ImportOptions struct {
	// Replace wipes existing links and votes before importing.
	Replace bool
	// KeepCounters trusts the imported like/dislike counters instead of
	// recomputing them from the vote log.
	KeepCounters bool
}

// ImportResult reports what Import wrote
type ImportResult struct {
	LinksImported int `json:"links_imported"`
	VotesImported int `json:"votes_imported"`
	Reconciled    int `json:"reconciled"`
}

// Import writes links (upserted by id; id 0 gets a fresh id) and appends
// votes, then reconciles counters against the resulting log unless
// opts.KeepCounters is set.
func (s *Store) Import(ctx context.Context, links []models.Link, votes []models.Vote, opts ImportOptions) (ImportResult, error) {
	var result ImportResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if opts.Replace {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Vote{}).Error; err != nil {
				return fmt.Errorf("clear votes: %w", err)
			}
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Link{}).Error; err != nil {
				return fmt.Errorf("clear links: %w", err)
			}
		}

		var keyed, fresh []models.Link
		for _, link := range links {
			if link.ID == 0 {
				fresh = append(fresh, link)
			} else {
				keyed = append(keyed, link)
			}
		}
		if len(keyed) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"url", "title", "description", "likes", "dislikes", "updated_at"}),
			}).Create(&keyed).Error
			if err != nil {
				return fmt.Errorf("import links: %w", err)
			}
		}
		// links without an id go last so they land after the highest imported id
		freshLinks := NewLinkStore(tx)
		for i := range fresh {
			if err := freshLinks.insert(ctx, &fresh[i]); err != nil {
				return fmt.Errorf("import links: %w", err)
			}
		}
		result.LinksImported = len(keyed) + len(fresh)

		if len(votes) > 0 {
			rows := make([]models.Vote, len(votes))
			for i, v := range votes {
				if !v.VoteType.Valid() {
					return fmt.Errorf("import vote %d: %w", i, ErrInvalidVoteType)
				}
				rows[i] = models.Vote{LinkID: v.LinkID, VoteType: v.VoteType, Timestamp: v.Timestamp.UTC()}
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("import votes: %w", err)
			}
			result.VotesImported = len(rows)
		}

		if opts.KeepCounters {
			return nil
		}
		var err error
		result.Reconciled, err = reconcile(ctx, NewLinkStore(tx), NewVoteLog(tx))
		return err
	})
	return result, err
}

// Export returns all links and votes
func (s *Store) Export(ctx context.Context) ([]models.Link, []models.Vote, error) {
	var links []models.Link
	var votes []models.Vote
	err := s.tx(ctx, func(l *LinkStore, v *VoteLog) error {
		var err error
		if links, err = l.List(ctx); err != nil {
			return err
		}
		votes, err = v.List(ctx)
		return err
	})
	return links, votes, err
}

// now is the vote timestamp: UTC so stored values sort lexically, and
// microsecond precision to match the flat-file format.
func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}
