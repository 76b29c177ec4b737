package models

import "time"

// Link represents a submitted URL and its vote counters
type Link struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	URL         string    `gorm:"not null" json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Likes       uint      `gorm:"not null;default:0" json:"likes"`
	Dislikes    uint      `gorm:"not null;default:0" json:"dislikes"`
}

// Score is likes minus dislikes
func (l Link) Score() int64 {
	return int64(l.Likes) - int64(l.Dislikes)
}
