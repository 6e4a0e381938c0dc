package sequence_test

import (
	"context"
	"sync"
	"time"

	"github.com/Mythic-botz/Rename/internal/sequence"
)

// memoryStore keeps sessions in process memory.
type memoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*sequence.Session
	now      func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[int64]*sequence.Session), now: time.Now}
}

func (m *memoryStore) Begin(_ context.Context, userID, chatID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; ok {
		return false, nil
	}
	m.sessions[userID] = &sequence.Session{UserID: userID, ChatID: chatID, StartedAt: m.now()}
	return true, nil
}

func (m *memoryStore) Append(_ context.Context, userID int64, file sequence.File) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return false, nil
	}
	s.Files = append(s.Files, file)
	return true, nil
}

func (m *memoryStore) AddMessage(_ context.Context, userID, messageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		s.MessageIDs = append(s.MessageIDs, messageID)
	}
	return nil
}

func (m *memoryStore) Pop(_ context.Context, userID int64) (sequence.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return sequence.Session{}, false, nil
	}
	delete(m.sessions, userID)
	return *s, true, nil
}

func (m *memoryStore) Get(_ context.Context, userID int64) (sequence.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return sequence.Session{}, false, nil
	}
	return sequence.Session{
		UserID:     s.UserID,
		ChatID:     s.ChatID,
		Files:      append([]sequence.File(nil), s.Files...),
		MessageIDs: append([]int64(nil), s.MessageIDs...),
		StartedAt:  s.StartedAt,
	}, true, nil
}
