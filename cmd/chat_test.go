package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/chatpdf/config"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/types"
)

type backendStub struct {
	mu        sync.Mutex
	uploads   [][]string
	questions []string
}

func (b *backendStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.URL.Path {
	case "/upload":
		var names []string
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for _, fh := range r.MultipartForm.File["files"] {
				names = append(names, fh.Filename)
			}
		}
		b.uploads = append(b.uploads, names)
	case "/ask":
		var req types.AskRequest
		json.NewDecoder(r.Body).Decode(&req)
		b.questions = append(b.questions, req.Question)
		if req.Question == "unknown?" {
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
			return
		}
		json.NewEncoder(w).Encode(types.AskResponse{Answer: "answer to " + req.Question})
	}
}

func newSession(t *testing.T, input, display string) (*chatSession, *bytes.Buffer, *backendStub) {
	t.Helper()
	stub := &backendStub{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	out := &bytes.Buffer{}
	return &chatSession{
		chat:    service.NewChatService(service.NewDocumentQAClient(srv.URL, "files", 0), consoleNotifier{out: out}),
		in:      strings.NewReader(input),
		out:     out,
		accept:  "application/pdf",
		display: display,
	}, out, stub
}

func writePDF(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("%PDF-1.4"), 0644))
	return p
}

func TestChatSession_FullFlow(t *testing.T) {
	dir := t.TempDir()
	a := writePDF(t, dir, "a.pdf")
	b := writePDF(t, dir, "b.pdf")

	input := strings.Join([]string{
		"what is this?",
		"/files " + a,
		"/files " + b,
		"/upload",
		"",
		"what is this?",
		"unknown?",
		"/log",
		"/quit",
		"never sent",
	}, "\n")
	session, out, stub := newSession(t, input, config.DISPLAY_MODE_LOG)

	require.NoError(t, session.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, service.NotReadyText)
	assert.Contains(t, text, service.UploadSuccessText)
	assert.Contains(t, text, "🤖 answer to what is this?")
	assert.Contains(t, text, "🤖 not found")
	assert.Contains(t, text, "--- chat session ended ---")

	stub.mu.Lock()
	assert.Equal(t, [][]string{{"b.pdf"}}, stub.uploads)
	assert.Equal(t, []string{"what is this?", "unknown?"}, stub.questions)
	stub.mu.Unlock()

	msgs := session.chat.Messages()
	require.Len(t, msgs, 4)
	assert.Equal(t, "not found", msgs[3].Text)
}

func TestChatSession_LatestDisplay(t *testing.T) {
	dir := t.TempDir()
	session, out, _ := newSession(t, "/upload\nfirst\nsecond\n/log\n", config.DISPLAY_MODE_LATEST)
	require.NoError(t, session.selectFiles([]string{dir}))

	require.NoError(t, session.run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Answer: answer to first")
	assert.Contains(t, text, "Answer: answer to second")
	assert.NotContains(t, text, "🤖")
}

func TestChatSession_UnknownCommand(t *testing.T) {
	session, out, stub := newSession(t, "/nope\n/files\n", config.DISPLAY_MODE_LOG)
	require.NoError(t, session.run(context.Background()))

	assert.Contains(t, out.String(), "unknown command /nope")
	assert.Contains(t, out.String(), "usage: /files")
	stub.mu.Lock()
	defer stub.mu.Unlock()
	assert.Empty(t, stub.questions)
}

func TestChatSession_BackendDown(t *testing.T) {
	session, out, _ := newSession(t, "/upload\n", config.DISPLAY_MODE_LOG)
	session.chat = service.NewChatService(service.NewDocumentQAClient("http://127.0.0.1:1", "files", 0), consoleNotifier{out: out})

	require.NoError(t, session.run(context.Background()))
	assert.Contains(t, out.String(), service.UploadErrorText)
	assert.False(t, session.chat.State().Ready)
}
