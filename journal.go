package confpub

import (
	"context"
	"time"
)

// PublishRecord is a journal entry describing the decision taken for one
// page during a run.
type PublishRecord struct {
	ID          string    `json:"id"`
	RunID       string    `json:"runId"`
	PageID      int       `json:"pageId"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	State       PageState `json:"state"`
	Version     int       `json:"version"`
	BodyHash    string    `json:"bodyHash"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *PublishRecord) Validate() error {
	if r.RunID == "" {
		return Errorf(EINVALID, "publish record run ID required")
	}
	if r.State == "" {
		return Errorf(EINVALID, "publish record state required")
	}
	return nil
}

// JournalService records publish decisions.
type JournalService interface {
	// RecordPublish stores a record. ID, BodyHash and PublishedAt are
	// filled in by the implementation.
	RecordPublish(ctx context.Context, rec *PublishRecord, body string) error

	// FindPublishRecords retrieves records matching the filter, newest first.
	FindPublishRecords(ctx context.Context, filter PublishRecordFilter) ([]*PublishRecord, error)
}

// PublishRecordFilter represents a filter for FindPublishRecords.
type PublishRecordFilter struct {
	RunID  *string    `json:"runId"`
	PageID *int       `json:"pageId"`
	State  *PageState `json:"state"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
