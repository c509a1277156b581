package store

import (
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const queryLimitDefault = 100

// LeadSearchCriteria narrows a lead search. Zero values are ignored.
type LeadSearchCriteria struct {
	Decision string   `json:"decision,omitempty"`
	Source   string   `json:"source,omitempty"`
	Country  string   `json:"country,omitempty"`
	Like     string   `json:"like,omitempty"`
	MinScore *float64 `json:"min_score,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

// SearchLeads returns leads matching the criteria, best score first.
func (s *Store) SearchLeads(c *LeadSearchCriteria) ([]*Lead, error) {
	if s == nil || s.db == nil {
		return nil, errStoreNotInitialized
	}
	if c == nil {
		c = &LeadSearchCriteria{}
	}

	limit := c.Limit
	if limit <= 0 {
		limit = queryLimitDefault
	}

	q := s.sb.Select(leadColumns...).From(leadTable)
	if c.Decision != "" {
		q = q.Where(sq.Eq{"decision": c.Decision})
	}
	if c.Source != "" {
		q = q.Where(sq.Eq{"source": c.Source})
	}
	if c.Country != "" {
		q = q.Where(sq.Eq{"country": c.Country})
	}
	if c.Like != "" {
		val := fmt.Sprintf("%%%s%%", c.Like)
		q = q.Where(sq.Or{
			sq.Like{"title": val},
			sq.Like{"snippet": val},
			sq.Like{"company": val},
		})
	}
	if c.MinScore != nil {
		q = q.Where(sq.GtOrEq{"score": *c.MinScore})
	}

	rows, err := q.OrderBy("score DESC", "published DESC").
		Limit(uint64(limit)).
		RunWith(s.db).
		Query()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute lead select statement: %w", err)
	}
	defer rows.Close()

	return mapLeads(rows)
}

func mapLeads(rows *sql.Rows) ([]*Lead, error) {
	list := make([]*Lead, 0)
	for rows.Next() {
		l := &Lead{}
		if err := rows.Scan(&l.ID, &l.Title, &l.Snippet, &l.URL, &l.Company, &l.Country,
			&l.Source, &l.Published, &l.Score, &l.Decision, &l.Signals, &l.Created, &l.Updated); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return list, nil
			}
			return nil, fmt.Errorf("failed to scan lead row: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// DataState summarizes what the store currently holds.
type DataState struct {
	Total     int64            `json:"total" yaml:"total"`
	Decisions map[string]int64 `json:"decisions" yaml:"decisions"`
	Sources   map[string]int64 `json:"sources" yaml:"sources"`
}

// GetDataState returns the current state of the database.
func (s *Store) GetDataState() (*DataState, error) {
	if s == nil || s.db == nil {
		return nil, errStoreNotInitialized
	}

	state := &DataState{
		Decisions: make(map[string]int64),
		Sources:   make(map[string]int64),
	}

	if err := s.sb.Select("COUNT(*)").
		From(leadTable).
		RunWith(s.db).
		QueryRow().
		Scan(&state.Total); err != nil {
		return nil, fmt.Errorf("error getting lead count: %w", err)
	}

	decisions, err := s.countBy("decision")
	if err != nil {
		return nil, fmt.Errorf("error getting decision counts: %w", err)
	}
	state.Decisions = decisions

	sources, err := s.countBy("source")
	if err != nil {
		return nil, fmt.Errorf("error getting source counts: %w", err)
	}
	state.Sources = sources

	return state, nil
}

func (s *Store) countBy(col string) (map[string]int64, error) {
	rows, err := s.sb.Select(col, "COUNT(*)").
		From(leadTable).
		GroupBy(col).
		RunWith(s.db).
		Query()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to execute count statement: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[key] = count
	}
	return counts, rows.Err()
}
