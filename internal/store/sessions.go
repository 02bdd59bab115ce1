// internal/store/sessions.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foliometry/insight/internal/session"
)

// SessionsSince returns quality-filtered sessions (non-zero duration and
// pages viewed) starting at or after the given time, oldest first. This is
// the training/metrics read path; live scoring never touches storage.
func (p *Postgres) SessionsSince(ctx context.Context, since time.Time) ([]session.Session, error) {
	query := sessionSelect + `
		WHERE start_time >= $1 AND duration_ms > 0 AND pages_viewed > 0
		ORDER BY start_time`

	rows, err := p.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// SessionsForVisitor returns one visitor's sessions ordered by start time.
func (p *Postgres) SessionsForVisitor(ctx context.Context, visitorID string) ([]session.Session, error) {
	query := sessionSelect + `
		WHERE visitor_id = $1 AND duration_ms > 0 AND pages_viewed > 0
		ORDER BY start_time`

	rows, err := p.db.QueryContext(ctx, query, visitorID)
	if err != nil {
		return nil, fmt.Errorf("query visitor sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// DailyCounts aggregates session starts per day since the given time, the
// input series for the forecast engine.
func (p *Postgres) DailyCounts(ctx context.Context, since time.Time) ([]session.DailyCount, error) {
	query := `
		SELECT date_trunc('day', start_time) AS day, COUNT(*)
		FROM sessions
		WHERE start_time >= $1
		GROUP BY day
		ORDER BY day`

	rows, err := p.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("query daily counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []session.DailyCount
	for rows.Next() {
		var c session.DailyCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const sessionSelect = `
	SELECT id, COALESCE(visitor_id, ''), start_time, end_time, duration_ms,
	       pages_viewed, clicks, scroll_depth, time_on_page, page_journey,
	       referrer, campaign, medium, is_mobile, is_tablet, os,
	       converted, conversion_value
	FROM sessions`

func scanSessions(rows *sql.Rows) ([]session.Session, error) {
	var sessions []session.Session
	for rows.Next() {
		var (
			s           session.Session
			endTime     sql.NullTime
			timeOnPage  []byte
			pageJourney []byte
		)
		err := rows.Scan(
			&s.ID, &s.VisitorID, &s.StartTime, &endTime, &s.Duration,
			&s.PagesViewed, &s.Clicks, &s.ScrollDepth, &timeOnPage, &pageJourney,
			&s.Source.Referrer, &s.Source.Campaign, &s.Source.Medium,
			&s.Device.IsMobile, &s.Device.IsTablet, &s.Device.OS,
			&s.Converted, &s.ConversionValue,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if endTime.Valid {
			t := endTime.Time
			s.EndTime = &t
		}
		if err := json.Unmarshal(timeOnPage, &s.TimeOnPage); err != nil {
			return nil, fmt.Errorf("decode time_on_page for %s: %w", s.ID, err)
		}
		if err := json.Unmarshal(pageJourney, &s.PageJourney); err != nil {
			return nil, fmt.Errorf("decode page_journey for %s: %w", s.ID, err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
