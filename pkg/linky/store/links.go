package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mikepea/linky/pkg/linky/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkStore persists link records
type LinkStore struct {
	db *gorm.DB
}

// NewLinkStore creates a link store on db
func NewLinkStore(db *gorm.DB) *LinkStore {
	return &LinkStore{db: db}
}

// List returns all links in id order. An empty store yields an empty slice.
func (s *LinkStore) List(ctx context.Context) ([]models.Link, error) {
	links := []models.Link{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Get returns the link with the given id
func (s *LinkStore) Get(ctx context.Context, id uint) (models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).First(&link, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return link, ErrLinkNotFound
	}
	if err != nil {
		return link, fmt.Errorf("get link %d: %w", id, err)
	}
	return link, nil
}

// Create stores a new link with zeroed counters under id max(id)+1.
// Urls are not required to be unique.
func (s *LinkStore) Create(ctx context.Context, url, title, description string) (models.Link, error) {
	link := models.Link{
		URL:         url,
		Title:       title,
		Description: description,
	}
	if err := s.insert(ctx, &link); err != nil {
		return link, fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

// insert assigns link the id after the highest existing one and stores it.
// SQLite's AUTOINCREMENT would skip ids freed by a replace import.
func (s *LinkStore) insert(ctx context.Context, link *models.Link) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID uint
		if err := tx.Model(&models.Link{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		link.ID = maxID + 1
		return tx.Create(link).Error
	})
}

// Update writes every field of link
func (s *LinkStore) Update(ctx context.Context, link *models.Link) error {
	if link.ID == 0 {
		return ErrLinkNotFound
	}
	result := s.db.WithContext(ctx).Model(link).
		Select("url", "title", "description", "likes", "dislikes").
		Updates(link)
	if result.Error != nil {
		return fmt.Errorf("update link %d: %w", link.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// adjust applies delta to one counter of a link, never going below zero
func (s *LinkStore) adjust(ctx context.Context, id uint, voteType models.VoteType, delta int) error {
	column := "likes"
	if voteType == models.VoteTypeDislike {
		column = "dislikes"
	}

	var expr clause.Expr
	if delta > 0 {
		expr = gorm.Expr(column+" + ?", delta)
	} else {
		expr = gorm.Expr("CASE WHEN "+column+" >= ? THEN "+column+" - ? ELSE 0 END", -delta, -delta)
	}

	if err := s.db.WithContext(ctx).Model(&models.Link{}).Where("id = ?", id).Update(column, expr).Error; err != nil {
		return fmt.Errorf("update %s for link %d: %w", column, id, err)
	}
	return nil
}
