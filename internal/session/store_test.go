package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garvtayal-05/Interview-Platform-sub000/internal/model"
)

func TestGetOrCreate(t *testing.T) {
	s := NewStore()

	first := s.GetOrCreate("u1")
	require.NotEmpty(t, first.SessionID)
	assert.Equal(t, "u1", first.UserID)
	assert.False(t, first.StartTime.IsZero())

	again := s.GetOrCreate("u1")
	assert.Equal(t, first.SessionID, again.SessionID, "session ID must not change")
	assert.Equal(t, first.StartTime, again.StartTime)

	other := s.GetOrCreate("u2")
	assert.NotEqual(t, first.SessionID, other.SessionID)
	assert.Equal(t, 2, s.Len())
}

func TestGetAbsent(t *testing.T) {
	s := NewStore()
	_, ok := s.Get("nobody")
	assert.False(t, ok)
}

func TestAppendAndSnapshot(t *testing.T) {
	s := NewStore()
	sess := s.GetOrCreate("u1")

	ok := s.Append("u1", sess.SessionID,
		model.AnswerEntry{Question: "Q1", Answer: "A1", ResponseTime: 12},
		model.Evaluation{Question: "Q1", Answer: "A1", Feedback: "fine"})
	require.True(t, ok)

	got, ok := s.Get("u1")
	require.True(t, ok)
	require.Len(t, got.Evaluations, 1)
	require.Len(t, got.Answers, 1)
	assert.Equal(t, "fine", got.Evaluations[0].Feedback)

	// Mutating a snapshot must not leak into the store.
	got.Evaluations[0].Feedback = "changed"
	again, _ := s.Get("u1")
	assert.Equal(t, "fine", again.Evaluations[0].Feedback)
	// The earlier GetOrCreate snapshot is unaffected by the append.
	assert.Empty(t, sess.Evaluations)
}

func TestAppendToRetiredSession(t *testing.T) {
	s := NewStore()
	old := s.GetOrCreate("u1")
	s.Delete("u1")

	assert.False(t, s.Append("u1", old.SessionID, model.AnswerEntry{}, model.Evaluation{}))

	fresh := s.GetOrCreate("u1")
	assert.NotEqual(t, old.SessionID, fresh.SessionID)
	assert.False(t, s.Append("u1", old.SessionID, model.AnswerEntry{}, model.Evaluation{}))
	assert.True(t, s.Append("u1", fresh.SessionID, model.AnswerEntry{}, model.Evaluation{}))
}

func TestDelete(t *testing.T) {
	s := NewStore()
	s.GetOrCreate("u1")
	s.Delete("u1")
	_, ok := s.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// Deleting twice is harmless.
	s.Delete("u1")
}

func TestDeterministicClockAndIDs(t *testing.T) {
	s := NewStore()
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }
	n := 0
	s.newID = func() string { n++; return fmt.Sprintf("sess-%d", n) }

	sess := s.GetOrCreate("u1")
	assert.Equal(t, "sess-1", sess.SessionID)
	assert.Equal(t, start, sess.StartTime)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	sess := s.GetOrCreate("u1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.GetOrCreate(fmt.Sprintf("user-%d", i%5))
			s.Append("u1", sess.SessionID, model.AnswerEntry{}, model.Evaluation{Feedback: fmt.Sprint(i)})
		}(i)
	}
	wg.Wait()

	got, _ := s.Get("u1")
	assert.Len(t, got.Evaluations, 50)
	assert.Equal(t, 6, s.Len())
}
