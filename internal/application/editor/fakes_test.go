package editor

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/timesheet/core/internal/domain/entities"
)

type recordingWriter struct {
	mu      sync.Mutex
	creates []*entities.TimeRecord
	updates map[uuid.UUID]*entities.TimeRecord
	failAt  int
	err     error
	calls   int
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{updates: map[uuid.UUID]*entities.TimeRecord{}, failAt: -1}
}

func (w *recordingWriter) CreateRecord(_ context.Context, user *entities.User, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	call := w.calls
	w.calls++
	if w.err != nil && (w.failAt < 0 || w.failAt == call) {
		return nil, w.err
	}
	copied := *record
	copied.ID = uuid.New()
	copied.UserID = user.ID
	w.creates = append(w.creates, &copied)
	return &copied, nil
}

func (w *recordingWriter) UpdateRecord(_ context.Context, user *entities.User, id uuid.UUID, record *entities.TimeRecord) (*entities.TimeRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls++
	if w.err != nil {
		return nil, w.err
	}
	copied := *record
	copied.ID = id
	copied.UserID = user.ID
	w.updates[id] = &copied
	return &copied, nil
}

func (w *recordingWriter) writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.creates) + len(w.updates)
}
