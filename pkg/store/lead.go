package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

var leadColumns = []string{
	"id",
	"title",
	"snippet",
	"url",
	"company",
	"country",
	"source",
	"published",
	"score",
	"decision",
	"signals",
	"created",
	"updated",
}

// Lead is a scored and routed candidate persisted for review.
type Lead struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Snippet   string    `json:"snippet,omitempty" yaml:"snippet,omitempty"`
	URL       string    `json:"url" yaml:"url"`
	Company   string    `json:"company,omitempty" yaml:"company,omitempty"`
	Country   string    `json:"country,omitempty" yaml:"country,omitempty"`
	Source    string    `json:"source,omitempty" yaml:"source,omitempty"`
	Published time.Time `json:"published" yaml:"published"`
	Score     float64   `json:"score" yaml:"score"`
	Decision  string    `json:"decision" yaml:"decision"`
	Signals   string    `json:"signals,omitempty" yaml:"signals,omitempty"`
	Created   time.Time `json:"created" yaml:"created"`
	Updated   time.Time `json:"updated" yaml:"updated"`
}

// BetterThan reports whether l should replace other when both refer to
// the same lead, preferring the higher score and then the newer
// published time.
func (l *Lead) BetterThan(other *Lead) bool {
	if l.Score != other.Score {
		return l.Score > other.Score
	}
	return l.Published.After(other.Published)
}

// SaveResult summarizes a batch save.
type SaveResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// SaveLeads writes the batch in a single transaction. A lead whose URL
// is already stored replaces the existing row only when it is the
// better of the two, otherwise it counts as skipped.
func (s *Store) SaveLeads(leads []*Lead) (*SaveResult, error) {
	if s == nil || s.db == nil {
		return nil, errStoreNotInitialized
	}

	res := &SaveResult{}
	if len(leads) == 0 {
		return res, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, l := range leads {
		existing, err := s.getLeadBy(tx, sq.Eq{"url": l.URL})
		if err != nil {
			rollbackTransaction(tx)
			return nil, fmt.Errorf("error checking lead[%d] %s: %w", i, l.URL, err)
		}

		now := time.Now().UTC()
		if existing == nil {
			if l.ID == "" {
				l.ID = uuid.NewString()
			}
			l.Created = now
			l.Updated = now
			if _, err := s.sb.Insert(leadTable).
				Columns(leadColumns...).
				Values(l.ID, l.Title, l.Snippet, l.URL, l.Company, l.Country, l.Source,
					l.Published, l.Score, l.Decision, l.Signals, l.Created, l.Updated).
				RunWith(tx).
				Exec(); err != nil {
				rollbackTransaction(tx)
				return nil, fmt.Errorf("error inserting lead[%d] %s: %w", i, l.URL, err)
			}
			res.Inserted++
			continue
		}

		if !l.BetterThan(existing) {
			res.Skipped++
			continue
		}

		l.ID = existing.ID
		l.Created = existing.Created
		l.Updated = now
		if _, err := s.sb.Update(leadTable).
			Set("title", l.Title).
			Set("snippet", l.Snippet).
			Set("company", l.Company).
			Set("country", l.Country).
			Set("source", l.Source).
			Set("published", l.Published).
			Set("score", l.Score).
			Set("decision", l.Decision).
			Set("signals", l.Signals).
			Set("updated", l.Updated).
			Where(sq.Eq{"id": existing.ID}).
			RunWith(tx).
			Exec(); err != nil {
			rollbackTransaction(tx)
			return nil, fmt.Errorf("error updating lead[%d] %s: %w", i, l.URL, err)
		}
		res.Updated++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return res, nil
}

// GetLead returns the lead with the given ID, or nil when not found.
func (s *Store) GetLead(id string) (*Lead, error) {
	if s == nil || s.db == nil {
		return nil, errStoreNotInitialized
	}
	return s.getLeadBy(s.db, sq.Eq{"id": id})
}

// GetLeadByURL returns the lead with the given URL, or nil when not found.
func (s *Store) GetLeadByURL(url string) (*Lead, error) {
	if s == nil || s.db == nil {
		return nil, errStoreNotInitialized
	}
	return s.getLeadBy(s.db, sq.Eq{"url": url})
}

func (s *Store) getLeadBy(runner sq.BaseRunner, pred any) (*Lead, error) {
	row := s.sb.Select(leadColumns...).
		From(leadTable).
		Where(pred).
		RunWith(runner).
		QueryRow()

	l := &Lead{}
	if err := row.Scan(&l.ID, &l.Title, &l.Snippet, &l.URL, &l.Company, &l.Country,
		&l.Source, &l.Published, &l.Score, &l.Decision, &l.Signals, &l.Created, &l.Updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan lead row: %w", err)
	}

	return l, nil
}
