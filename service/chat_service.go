package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/chatpdf/types"
)

const (
	UploadSuccessText  = "PDFs processed successfully!"
	UploadFailedText   = "Upload failed."
	UploadErrorText    = "Error uploading files."
	NotReadyText       = "Please process PDFs first!"
	BackendFailureText = "Error contacting backend."
)

var (
	ErrNotReady       = errors.New("documents have not been processed yet")
	ErrRequestPending = errors.New("a question is already being answered")
	ErrUploadInFlight = errors.New("an upload is already in progress")
)

// ChatService holds the state of one chat-with-documents session and turns
// user actions into calls against the document QA backend.
type ChatService struct {
	qa  QAClient
	log *ConversationStore
	now func() time.Time

	mu        sync.Mutex
	files     types.UploadSet
	question  string
	ready     bool
	pending   bool
	uploading bool
	notifiers MultiNotifier
	observers []StateObserver
}

func NewChatService(qa QAClient, notifiers ...Notifier) *ChatService {
	return &ChatService{
		qa:        qa,
		log:       NewConversationStore(),
		now:       time.Now,
		notifiers: append(MultiNotifier(nil), notifiers...),
	}
}

func (s *ChatService) AddNotifier(n Notifier) {
	s.mu.Lock()
	s.notifiers = append(s.notifiers, n)
	s.mu.Unlock()
}

func (s *ChatService) AddObserver(o StateObserver) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// SelectFiles replaces the current selection.
func (s *ChatService) SelectFiles(set types.UploadSet) {
	s.mu.Lock()
	s.files = append(types.UploadSet(nil), set...)
	s.mu.Unlock()
	s.changed()
}

func (s *ChatService) SetQuestion(text string) {
	s.mu.Lock()
	s.question = text
	s.mu.Unlock()
	s.changed()
}

// UploadFiles sends the current selection to the backend. Readiness only
// changes on success; failures are reported through the notifier.
func (s *ChatService) UploadFiles(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.uploading {
		s.mu.Unlock()
		return false, ErrUploadInFlight
	}
	s.uploading = true
	files := s.files
	s.mu.Unlock()
	s.changed()

	err := s.qa.Upload(ctx, files)

	s.mu.Lock()
	s.uploading = false
	if err == nil {
		s.ready = true
	}
	ready := s.ready
	s.mu.Unlock()

	var statusErr *StatusError
	switch {
	case err == nil:
		log.Printf("Uploaded %d file(s)", len(files))
		s.notify(types.NOTICE_LEVEL_INFO, UploadSuccessText)
	case errors.As(err, &statusErr):
		log.Println("Upload rejected:", err)
		s.notify(types.NOTICE_LEVEL_ERROR, UploadFailedText)
	default:
		log.Println("Upload error:", err)
		s.notify(types.NOTICE_LEVEL_ERROR, UploadErrorText)
	}
	s.changed()
	return ready, err
}

// AskQuestion submits the current draft. A blank draft is ignored and
// returns a nil message. The returned message is the bot reply.
func (s *ChatService) AskQuestion(ctx context.Context) (*types.Message, error) {
	return s.submit(ctx, nil)
}

// Ask sets the draft to text and submits it. While a question is in flight
// the draft is left untouched and ErrRequestPending is returned.
func (s *ChatService) Ask(ctx context.Context, text string) (*types.Message, error) {
	return s.submit(ctx, &text)
}

func (s *ChatService) submit(ctx context.Context, text *string) (*types.Message, error) {
	s.mu.Lock()
	draftChanged := false
	if text != nil && !s.pending {
		s.question = *text
		draftChanged = true
	}
	if !s.ready {
		s.mu.Unlock()
		if draftChanged {
			s.changed()
		}
		s.notify(types.NOTICE_LEVEL_WARNING, NotReadyText)
		return nil, ErrNotReady
	}
	question := s.question
	if text != nil {
		question = *text
	}
	if strings.TrimSpace(question) == "" {
		s.mu.Unlock()
		if draftChanged {
			s.changed()
		}
		return nil, nil
	}
	if s.pending {
		s.mu.Unlock()
		return nil, ErrRequestPending
	}
	s.log.Append(s.newMessage(types.MESSAGE_ROLE_USER, question))
	s.pending = true
	s.mu.Unlock()
	s.changed()

	resp, err := s.qa.Ask(ctx, question)

	s.mu.Lock()
	var reply types.Message
	if err != nil {
		log.Println("Ask error:", err)
		reply = s.newMessage(types.MESSAGE_ROLE_BOT, BackendFailureText)
	} else {
		reply = s.newMessage(types.MESSAGE_ROLE_BOT, ResolveAnswerText(resp))
		s.question = ""
	}
	s.log.Append(reply)
	s.pending = false
	s.mu.Unlock()
	s.changed()

	return &reply, nil
}

func (s *ChatService) Messages() []types.Message {
	return s.log.All()
}

// LatestAnswer is the text of the most recent bot message.
func (s *ChatService) LatestAnswer() string {
	msg, ok := s.log.Last(types.MESSAGE_ROLE_BOT)
	if !ok {
		return ""
	}
	return msg.Text
}

func (s *ChatService) State() types.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *ChatService) stateLocked() types.ChatState {
	label := types.SEND_LABEL_IDLE
	if s.pending {
		label = types.SEND_LABEL_PENDING
	}
	return types.ChatState{
		Files:     s.files.Names(),
		Question:  s.question,
		Ready:     s.ready,
		Pending:   s.pending,
		Uploading: s.uploading,
		SendLabel: label,
		Messages:  s.log.All(),
	}
}

func (s *ChatService) newMessage(role, text string) types.Message {
	return types.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: s.now(),
	}
}

func (s *ChatService) notify(level, text string) {
	s.mu.Lock()
	notifiers := append(MultiNotifier(nil), s.notifiers...)
	s.mu.Unlock()
	if len(notifiers) == 0 {
		notifiers = MultiNotifier{LogNotifier{}}
	}
	notifiers.Notify(level, text)
}

// changed snapshots the state and hands it to observers outside the lock.
func (s *ChatService) changed() {
	s.mu.Lock()
	if len(s.observers) == 0 {
		s.mu.Unlock()
		return
	}
	state := s.stateLocked()
	observers := append([]StateObserver(nil), s.observers...)
	s.mu.Unlock()

	for _, o := range observers {
		o.StateChanged(state)
	}
}
