package state

import "sync"

// Store owns all conversation entries exclusively. Implementations hand out
// value snapshots, never aliases into internal storage, and each operation
// is atomic with respect to other operations on the same chat id.
type Store interface {
	// Get returns the stored conversation, or the default {main, empty}
	// when the chat has never been seen. Absence is not an error and does
	// not create an entry.
	Get(chatID int64) Conversation
	// Set replaces the whole entry for the chat. Passing a zero Pending
	// discards previously accumulated input; callers that want to keep it
	// must pass the existing value with the new field added.
	Set(chatID int64, step Step, pending Pending)
	// Reset returns the chat to the resting state with no pending input.
	Reset(chatID int64)
}

// MemoryStore is the process-local Store. Entries live for the lifetime of
// the process; there is deliberately no eviction.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[int64]Conversation
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[int64]Conversation),
	}
}

// Get returns a snapshot of the stored conversation or the default state.
func (s *MemoryStore) Get(chatID int64) Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if conv, ok := s.conversations[chatID]; ok {
		return conv
	}

	return NewConversation()
}

// Set replaces the entry for the chat.
func (s *MemoryStore) Set(chatID int64, step Step, pending Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[chatID] = Conversation{Step: step, Pending: pending}
}

// Reset puts the chat back to the resting state.
func (s *MemoryStore) Reset(chatID int64) {
	s.Set(chatID, StepMain, Pending{})
}

// Len reports the number of tracked conversations, used by metrics.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.conversations)
}
