package memory

import (
	"context"
	"testing"
	"time"

	appoutbox "trailblaze/internal/app/outbox"
)

func TestOutbox_ClaimAndMarkSentDrainTheQueue(t *testing.T) {
	box := NewOutbox()
	ctx := context.Background()
	if err := box.Add(ctx, appoutbox.EventRecord{ID: "evt-1", Name: "campground.created", Payload: []byte(`{}`), OccurredAt: time.Now()}); err != nil {
		t.Fatalf("add: %v", err)
	}

	doc, err := box.Claim(ctx, "w-1")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if doc == nil || doc.ID != "evt-1" || doc.Attempts != 1 || doc.ClaimedBy != "w-1" {
		t.Fatalf("unexpected claim result: %+v", doc)
	}
	if err := box.MarkSent(ctx, doc.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	again, err := box.Claim(ctx, "w-1")
	if err != nil {
		t.Fatalf("claim after send: %v", err)
	}
	if again != nil {
		t.Fatalf("sent entry claimed again: %+v", again)
	}
}

func TestOutbox_MarkFailedRequeuesAfterRetryAt(t *testing.T) {
	box := NewOutbox()
	ctx := context.Background()
	if err := box.Add(ctx, appoutbox.EventRecord{ID: "evt-1", Name: "review.posted", Payload: []byte(`{}`), OccurredAt: time.Now()}); err != nil {
		t.Fatalf("add: %v", err)
	}
	doc, err := box.Claim(ctx, "w-1")
	if err != nil || doc == nil {
		t.Fatalf("claim: %v %v", doc, err)
	}

	if err := box.MarkFailed(ctx, doc.ID, time.Now().Add(-time.Second), "broker down"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	retried, err := box.Claim(ctx, "w-1")
	if err != nil {
		t.Fatalf("claim after retry due: %v", err)
	}
	if retried == nil || retried.Attempts != 2 || retried.LastError != "broker down" {
		t.Fatalf("retry not honored: %+v", retried)
	}
}

func TestOutbox_FutureRetryBlocksClaim(t *testing.T) {
	box := NewOutbox()
	ctx := context.Background()
	if err := box.Add(ctx, appoutbox.EventRecord{ID: "evt-1", Name: "review.posted", Payload: []byte(`{}`), OccurredAt: time.Now()}); err != nil {
		t.Fatalf("add: %v", err)
	}
	doc, err := box.Claim(ctx, "w-1")
	if err != nil || doc == nil {
		t.Fatalf("claim: %v %v", doc, err)
	}
	if err := box.MarkFailed(ctx, doc.ID, time.Now().Add(time.Hour), "broker down"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if early, _ := box.Claim(ctx, "w-1"); early != nil {
		t.Fatalf("entry claimable before its retry time: %+v", early)
	}
}
