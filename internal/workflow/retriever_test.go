package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/opsmind/opsmind/internal/log"
)

func TestRetrieve(t *testing.T) {
	store := &mockStore{results: evidence("first", "second")}
	r := NewRetriever(store, log.NewNop())

	docs, outcome := r.Retrieve(context.Background(), "query", 4)
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %s", outcome)
	}
	if len(docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(docs))
	}
	if docs[0].Content != "first" {
		t.Errorf("docs[0].Content = %q", docs[0].Content)
	}
	if docs[0].Scored {
		t.Error("Retrieve should not attach scores")
	}
}

func TestRetrieveWithScores(t *testing.T) {
	store := &mockStore{results: evidence("first")}
	r := NewRetriever(store, log.NewNop())

	docs, outcome := r.RetrieveWithScores(context.Background(), "query", 4)
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %s", outcome)
	}
	if !docs[0].Scored || docs[0].Score != 0.9 {
		t.Errorf("docs[0] score = %v scored = %v", docs[0].Score, docs[0].Scored)
	}
}

func TestRetrieveNotReady(t *testing.T) {
	r := NewRetriever(&mockStore{notReady: true}, log.NewNop())

	docs, outcome := r.Retrieve(context.Background(), "query", 4)
	if outcome != OutcomeNotReady {
		t.Errorf("outcome = %s, want not_ready", outcome)
	}
	if len(docs) != 0 {
		t.Errorf("docs = %d, want 0", len(docs))
	}

	nilStore := NewRetriever(nil, log.NewNop())
	if _, outcome := nilStore.Retrieve(context.Background(), "query", 4); outcome != OutcomeNotReady {
		t.Errorf("nil store outcome = %s, want not_ready", outcome)
	}
}

func TestRetrieveFailure(t *testing.T) {
	r := NewRetriever(&mockStore{err: errors.New("index down")}, log.NewNop())

	docs, outcome := r.Retrieve(context.Background(), "query", 4)
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %s, want failed", outcome)
	}
	if len(docs) != 0 {
		t.Error("failure must degrade to an empty list")
	}
}

func TestRetrieveEmpty(t *testing.T) {
	r := NewRetriever(&mockStore{}, log.NewNop())

	docs, outcome := r.Retrieve(context.Background(), "query", 4)
	if outcome != OutcomeEmpty {
		t.Errorf("outcome = %s, want empty", outcome)
	}
	if len(docs) != 0 {
		t.Error("docs should be empty")
	}
}
