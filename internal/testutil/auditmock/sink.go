package auditmock

import (
	"context"

	domain "tripdesk/internal/domain/audit"
)

// Sink records every entry it receives in order.
type Sink struct {
	Entries []domain.Entry
	WriteFn func(ctx context.Context, e *domain.Entry) error
}

var _ domain.Sink = (*Sink)(nil)

func (m *Sink) Write(ctx context.Context, e *domain.Entry) error {
	if m.WriteFn != nil {
		return m.WriteFn(ctx, e)
	}
	m.Entries = append(m.Entries, *e)
	return nil
}
