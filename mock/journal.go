package mock

import (
	"context"

	"github.com/fwojciec/confpub"
)

var _ confpub.JournalService = (*JournalService)(nil)

// JournalService is a mock implementation of confpub.JournalService.
type JournalService struct {
	RecordPublishFn      func(ctx context.Context, rec *confpub.PublishRecord, body string) error
	FindPublishRecordsFn func(ctx context.Context, filter confpub.PublishRecordFilter) ([]*confpub.PublishRecord, error)
}

func (s *JournalService) RecordPublish(ctx context.Context, rec *confpub.PublishRecord, body string) error {
	return s.RecordPublishFn(ctx, rec, body)
}

func (s *JournalService) FindPublishRecords(ctx context.Context, filter confpub.PublishRecordFilter) ([]*confpub.PublishRecord, error) {
	return s.FindPublishRecordsFn(ctx, filter)
}
