// Package flatfile reads and writes the legacy links.json / votes.json files.
//
// A missing or malformed file reads as "no data". Writes go to a temporary
// file that is renamed over the target, so readers never see a partial file.
package flatfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mikepea/linky/pkg/linky/logging"
	"github.com/mikepea/linky/pkg/linky/models"
)

const (
	LinksFile = "links.json"
	VotesFile = "votes.json"

	// TimestampLayout is the zone-less local time format of legacy vote records.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// LinkRecord is one element of links.json
type LinkRecord struct {
	ID          uint   `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Likes       int    `json:"likes"`
	Dislikes    int    `json:"dislikes"`
}

// VoteRecord is one element of votes.json
type VoteRecord struct {
	LinkID    uint   `json:"link_id"`
	VoteType  string `json:"vote_type"`
	Timestamp string `json:"timestamp"`
}

// Files names a links.json / votes.json pair
type Files struct {
	Links string
	Votes string
}

// Dir returns the standard file pair inside dir
func Dir(dir string) Files {
	return Files{
		Links: filepath.Join(dir, LinksFile),
		Votes: filepath.Join(dir, VotesFile),
	}
}

// Load reads both files and converts them to models. Vote records with a bad
// timestamp or vote type are skipped.
func (f Files) Load() ([]models.Link, []models.Vote, error) {
	linkRecords, err := ReadLinks(f.Links)
	if err != nil {
		return nil, nil, err
	}
	voteRecords, err := ReadVotes(f.Votes)
	if err != nil {
		return nil, nil, err
	}
	votes, skipped := ToVotes(voteRecords)
	if skipped > 0 {
		logging.Logger.Warn("skipped invalid vote records", slog.String("path", f.Votes), slog.Int("skipped", skipped))
	}
	return ToLinks(linkRecords), votes, nil
}

// Save writes both files
func (f Files) Save(links []models.Link, votes []models.Vote) error {
	if err := WriteLinks(f.Links, FromLinks(links)); err != nil {
		return err
	}
	return WriteVotes(f.Votes, FromVotes(votes))
}

// ReadLinks reads links.json
func ReadLinks(path string) ([]LinkRecord, error) {
	return readJSON[LinkRecord](path)
}

// WriteLinks replaces links.json
func WriteLinks(path string, records []LinkRecord) error {
	if records == nil {
		records = []LinkRecord{}
	}
	return writeJSON(path, records)
}

// ReadVotes reads votes.json
func ReadVotes(path string) ([]VoteRecord, error) {
	return readJSON[VoteRecord](path)
}

// WriteVotes replaces votes.json
func WriteVotes(path string, records []VoteRecord) error {
	if records == nil {
		records = []VoteRecord{}
	}
	return writeJSON(path, records)
}

// readJSON decodes a JSON array file, returning an empty slice when the file
// is absent or does not decode cleanly.
func readJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		logging.Logger.Warn("ignoring malformed data file", slog.String("path", path), slog.String("error", err.Error()))
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// FromLinks converts models to file records
func FromLinks(links []models.Link) []LinkRecord {
	out := make([]LinkRecord, len(links))
	for i, l := range links {
		out[i] = LinkRecord{
			ID:          l.ID,
			URL:         l.URL,
			Title:       l.Title,
			Description: l.Description,
			Likes:       int(l.Likes),
			Dislikes:    int(l.Dislikes),
		}
	}
	return out
}

// ToLinks converts file records to models; negative counters become zero.
func ToLinks(records []LinkRecord) []models.Link {
	out := make([]models.Link, len(records))
	for i, r := range records {
		out[i] = models.Link{
			ID:          r.ID,
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
			Likes:       uint(max(r.Likes, 0)),
			Dislikes:    uint(max(r.Dislikes, 0)),
		}
	}
	return out
}

// FromVotes converts models to file records
func FromVotes(votes []models.Vote) []VoteRecord {
	out := make([]VoteRecord, len(votes))
	for i, v := range votes {
		out[i] = VoteRecord{
			LinkID:    v.LinkID,
			VoteType:  string(v.VoteType),
			Timestamp: FormatTimestamp(v.Timestamp),
		}
	}
	return out
}

// ToVotes converts file records to models, dropping records that cannot be
// parsed. It returns how many were dropped.
func ToVotes(records []VoteRecord) ([]models.Vote, int) {
	out := make([]models.Vote, 0, len(records))
	skipped := 0
	for _, r := range records {
		voteType := models.VoteType(r.VoteType)
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil || !voteType.Valid() {
			skipped++
			continue
		}
		out = append(out, models.Vote{
			LinkID:    r.LinkID,
			VoteType:  voteType,
			Timestamp: ts,
		})
	}
	return out, skipped
}

// FormatTimestamp renders t in local time using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout (with or without fractional seconds,
// read as local time) and RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
