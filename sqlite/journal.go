package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/confpub"
	"github.com/google/uuid"
)

// timeFormat is a fixed-width timestamp layout; stored timestamps sort
// chronologically as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Compile-time interface verification.
var _ confpub.JournalService = (*JournalService)(nil)

// JournalService implements confpub.JournalService using SQLite.
type JournalService struct {
	db *DB

	// Now returns the current time. Tests may replace it.
	Now func() time.Time
}

// NewJournalService creates a new JournalService.
func NewJournalService(db *DB) *JournalService {
	return &JournalService{db: db, Now: time.Now}
}

// NewRunID returns a fresh identifier grouping the records of one run.
func NewRunID() string {
	return uuid.New().String()
}

// RecordPublish stores a record of the decision taken for a page. The
// record ID, body hash and timestamp are assigned here.
func (s *JournalService) RecordPublish(ctx context.Context, rec *confpub.PublishRecord, body string) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.BodyHash = hashContent(body)
	rec.PublishedAt = s.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO publish_records (id, run_id, page_id, source, title, state, version, body_hash, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.PageID, rec.Source, rec.Title, string(rec.State), rec.Version,
		rec.BodyHash, rec.PublishedAt.Format(timeFormat))

	return err
}

// FindPublishRecords retrieves records matching the filter, newest first.
func (s *JournalService) FindPublishRecords(ctx context.Context, filter confpub.PublishRecordFilter) ([]*confpub.PublishRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, page_id, source, title, state, version, body_hash, published_at FROM publish_records WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.PageID != nil {
		query.WriteString(" AND page_id = ?")
		args = append(args, *filter.PageID)
	}
	if filter.State != nil {
		query.WriteString(" AND state = ?")
		args = append(args, string(*filter.State))
	}

	query.WriteString(" ORDER BY published_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*confpub.PublishRecord
	for rows.Next() {
		var rec confpub.PublishRecord
		var state, publishedAt string

		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.PageID, &rec.Source, &rec.Title,
			&state, &rec.Version, &rec.BodyHash, &publishedAt); err != nil {
			return nil, err
		}

		rec.State = confpub.PageState(state)
		if rec.PublishedAt, err = parseRFC3339(publishedAt, "published_at"); err != nil {
			return nil, err
		}

		records = append(records, &rec)
	}

	return records, rows.Err()
}
