package service

import (
	"sync"

	"github.com/tieubaoca/chatpdf/types"
)

// ConversationStore is the append-only message log of one chat session.
type ConversationStore struct {
	mu       sync.Mutex
	messages []types.Message
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{messages: make([]types.Message, 0, 64)}
}

func (s *ConversationStore) Append(msg types.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *ConversationStore) All() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]types.Message, len(s.messages))
	copy(cp, s.messages)
	return cp
}

func (s *ConversationStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Last returns the most recent message with the given role.
func (s *ConversationStore) Last(role string) (types.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == role {
			return s.messages[i], true
		}
	}
	return types.Message{}, false
}
