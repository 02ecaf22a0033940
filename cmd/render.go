package cmd

import (
	"fmt"
	"io"

	"github.com/tieubaoca/chatpdf/config"
	"github.com/tieubaoca/chatpdf/types"
)

// consoleNotifier prints notices the way a browser alert would interrupt the user.
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) Notify(level, text string) {
	icon := "ℹ️ "
	switch level {
	case types.NOTICE_LEVEL_WARNING:
		icon = "⚠️ "
	case types.NOTICE_LEVEL_ERROR:
		icon = "❌"
	}
	fmt.Fprintf(n.out, "%s %s\n", icon, text)
}

func renderMessage(w io.Writer, msg types.Message) {
	if msg.Role == types.MESSAGE_ROLE_USER {
		fmt.Fprintf(w, "🧑 %s\n", msg.Text)
		return
	}
	fmt.Fprintf(w, "🤖 %s\n", msg.Text)
}

// renderConversation prints the whole log, or only the latest answer in
// latest display mode.
func renderConversation(w io.Writer, messages []types.Message, display string) {
	if display == config.DISPLAY_MODE_LATEST {
		renderLatest(w, messages)
		return
	}
	if len(messages) == 0 {
		fmt.Fprintln(w, "(no messages yet)")
		return
	}
	for _, msg := range messages {
		renderMessage(w, msg)
	}
}

func renderLatest(w io.Writer, messages []types.Message) {
	answer := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == types.MESSAGE_ROLE_BOT {
			answer = messages[i].Text
			break
		}
	}
	fmt.Fprintf(w, "Answer: %s\n", answer)
}

func renderReply(w io.Writer, reply *types.Message, display string) {
	if reply == nil {
		return
	}
	if display == config.DISPLAY_MODE_LATEST {
		renderLatest(w, []types.Message{*reply})
		return
	}
	renderMessage(w, *reply)
}
