package engine

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type recordingSink struct {
	bundles []*ViewBundle
	err     error
}

func (s *recordingSink) Publish(ctx context.Context, bundle *ViewBundle) error {
	s.bundles = append(s.bundles, bundle)
	return s.err
}

func newTestSession(t *testing.T, sink Sink) *Session {
	t.Helper()
	return NewSession(NewAssembler(fixtureStore(t), 10), zap.NewNop(), sink)
}

func TestSessionApply(t *testing.T) {
	sink := &recordingSink{}
	session := newTestSession(t, sink)

	bundle, err := session.Apply(context.Background(), mustSpec(t, nil, nil, nil))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if bundle.Generation != 1 {
		t.Errorf("expected generation 1, got %d", bundle.Generation)
	}
	if bundle.FilteredCount != 4 {
		t.Errorf("expected 4 filtered records, got %d", bundle.FilteredCount)
	}
	if session.Latest() != bundle {
		t.Error("Latest should return the committed bundle")
	}
	if len(sink.bundles) != 1 || sink.bundles[0] != bundle {
		t.Errorf("expected bundle forwarded to sink, got %v", sink.bundles)
	}
}

func TestSessionLastWriteWins(t *testing.T) {
	session := newTestSession(t, nil)

	// A refresh that is overtaken by a newer claim must be discarded.
	older := session.claim()
	newer := session.claim()

	stale := session.assembler.Refresh(mustSpec(t, nil, nil, intPtr(0)))
	if session.commit(older, stale) {
		t.Error("stale generation must not commit")
	}
	if session.Latest() != nil {
		t.Error("discarded result must not become Latest")
	}

	fresh := session.assembler.Refresh(mustSpec(t, nil, nil, nil))
	if !session.commit(newer, fresh) {
		t.Error("newest generation must commit")
	}
	if session.Latest() != fresh {
		t.Error("expected the newest bundle as Latest")
	}
	if fresh.Generation != newer {
		t.Errorf("expected generation %d, got %d", newer, fresh.Generation)
	}
}

func TestSessionSinkFailureDoesNotFailApply(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker down")}
	session := newTestSession(t, sink)

	bundle, err := session.Apply(context.Background(), mustSpec(t, nil, nil, nil))
	if err != nil {
		t.Fatalf("Apply should tolerate sink failure, got %v", err)
	}
	if bundle == nil {
		t.Fatal("expected a committed bundle")
	}
}

func TestSessionLatestBeforeFirstRefresh(t *testing.T) {
	session := newTestSession(t, nil)
	if session.Latest() != nil {
		t.Error("expected nil before the first committed refresh")
	}
}
