package audit

import "context"

// Sink is the append-only write contract. Storage and retention live with an
// external collaborator; only the in-transaction write matters here.
type Sink interface {
	Write(ctx context.Context, e *Entry) error
}
