package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tieubaoca/chatpdf/types"
)

func TestConversationStore(t *testing.T) {
	s := NewConversationStore()
	_, ok := s.Last(types.MESSAGE_ROLE_BOT)
	assert.False(t, ok)

	s.Append(types.Message{Role: types.MESSAGE_ROLE_USER, Text: "q1"})
	s.Append(types.Message{Role: types.MESSAGE_ROLE_BOT, Text: "a1"})
	s.Append(types.Message{Role: types.MESSAGE_ROLE_USER, Text: "q2"})

	assert.Equal(t, 3, s.Len())
	last, ok := s.Last(types.MESSAGE_ROLE_BOT)
	assert.True(t, ok)
	assert.Equal(t, "a1", last.Text)

	all := s.All()
	all[0].Text = "mutated"
	assert.Equal(t, "q1", s.All()[0].Text, "All must return a copy")
}
