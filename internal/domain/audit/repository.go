package audit

import "context"

// Appender is embedded in every transaction-scoped domain repository so the
// audit row is written in the same unit of work as the change it describes.
type Appender interface {
	AppendAudit(ctx context.Context, entry *Entry) error
}

type Repository interface {
	ListRecent(ctx context.Context, householdID string, limit int) ([]EntryView, error)
}
