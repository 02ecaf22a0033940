package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/types"
	"github.com/tieubaoca/chatpdf/utils"
)

// chatCmd represents the interactive chat command
var chatCmd = &cobra.Command{
	Use:   "chat [paths...]",
	Short: "Start an interactive chat session",
	Long: `Starts an interactive session. Paths given as arguments are selected
right away; directories contribute the files matching the accept filter.

Commands inside the session:
  /files <paths...>  replace the selected files
  /upload            process the selected files
  /log               print the conversation
  /quit              leave the session
Any other line is sent as a question.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		session := &chatSession{
			chat:    service.NewChatService(newQAClient(cfg), consoleNotifier{out: out}),
			in:      cmd.InOrStdin(),
			out:     out,
			accept:  cfg.Accept,
			display: cfg.Display,
		}
		if len(args) > 0 {
			if err := session.selectFiles(args); err != nil {
				return err
			}
		}
		return session.run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type chatSession struct {
	chat    *service.ChatService
	in      io.Reader
	out     io.Writer
	accept  string
	display string
}

func (s *chatSession) run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)

	fmt.Fprintln(s.out, "--- chat session started ---")
	fmt.Fprintln(s.out, "(/files <paths>, /upload, /log, /quit)")

	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		quit, err := s.handleLine(ctx, line)
		if err != nil {
			fmt.Fprintf(s.out, "⚠️  %v\n", err)
		}
		if quit {
			break
		}
	}

	fmt.Fprintln(s.out, "--- chat session ended ---")
	return scanner.Err()
}

func (s *chatSession) handleLine(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) > 0 && strings.HasPrefix(fields[0], "/") {
		switch fields[0] {
		case "/quit", "/exit":
			return true, nil
		case "/files":
			if len(fields) < 2 {
				return false, errors.New("usage: /files <paths...>")
			}
			return false, s.selectFiles(fields[1:])
		case "/upload":
			fmt.Fprintf(s.out, "📤 Processing %d file(s)...\n", len(s.chat.State().Files))
			// failures are already reported by the notifier
			_, _ = s.chat.UploadFiles(ctx)
			return false, nil
		case "/log":
			renderConversation(s.out, s.chat.Messages(), s.display)
			return false, nil
		default:
			return false, fmt.Errorf("unknown command %s", fields[0])
		}
	}

	s.chat.SetQuestion(line)
	if s.chat.State().Ready && line != "" {
		fmt.Fprintln(s.out, types.SEND_LABEL_PENDING)
	}
	reply, err := s.chat.AskQuestion(ctx)
	if errors.Is(err, service.ErrNotReady) {
		// the notifier already warned the user
		return false, nil
	}
	if err != nil {
		return false, err
	}
	renderReply(s.out, reply, s.display)
	return false, nil
}

func (s *chatSession) selectFiles(paths []string) error {
	set, err := utils.LoadUploadSet(paths, s.accept)
	if err != nil {
		return err
	}
	s.chat.SelectFiles(set)
	fmt.Fprintf(s.out, "📎 Selected %d file(s): %s\n", len(set), strings.Join(set.Names(), ", "))
	return nil
}
