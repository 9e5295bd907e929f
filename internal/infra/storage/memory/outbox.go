package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "trailblaze/internal/app/outbox"
	infraoutbox "trailblaze/internal/infra/outbox"
)

// Outbox keeps event records in memory. It feeds the same worker as the
// durable store, which makes the dev setup publish for real when a broker
// is configured.
type Outbox struct {
	mu      sync.Mutex
	pending []*infraoutbox.EventDocument
	byID    map[string]*infraoutbox.EventDocument
}

func NewOutbox() *Outbox {
	return &Outbox{byID: make(map[string]*infraoutbox.EventDocument)}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	doc := &infraoutbox.EventDocument{
		ID:         record.ID,
		Name:       record.Name,
		Payload:    record.Payload,
		Aggregate:  record.Aggregate,
		Headers:    record.Headers,
		OccurredAt: record.OccurredAt,
		RetryAt:    time.Now().UTC(),
	}
	o.pending = append(o.pending, doc)
	o.byID[doc.ID] = doc
	return nil
}

func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now().UTC()
	for i, doc := range o.pending {
		if doc.RetryAt.After(now) {
			continue
		}
		o.pending = append(o.pending[:i], o.pending[i+1:]...)
		doc.Attempts++
		doc.ClaimedBy = workerID
		out := *doc
		return &out, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.byID, id)
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, retryAt time.Time, reason string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	doc, ok := o.byID[id]
	if !ok {
		return nil
	}
	doc.RetryAt = retryAt.UTC()
	doc.LastError = reason
	o.pending = append(o.pending, doc)
	return nil
}

// Drain returns and clears everything still queued. Test helper.
func (o *Outbox) Drain() []*infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := o.pending
	o.pending = nil
	o.byID = make(map[string]*infraoutbox.EventDocument)
	return out
}

var _ appoutbox.Outbox = (*Outbox)(nil)
var _ infraoutbox.Queue = (*Outbox)(nil)
