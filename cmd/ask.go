package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/chatpdf/service"
)

// askCmd represents the one-shot ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Upload documents and ask one question about them",
	Long: `Uploads the selected documents, then asks a single question and prints
the answer.

  chatpdf ask -f manual.pdf "How do I reset the device?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set, err := readSelection(cmd, nil, cfg.Accept)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		chat := service.NewChatService(newQAClient(cfg), consoleNotifier{out: cmd.ErrOrStderr()})
		chat.SelectFiles(set)
		if _, err := chat.UploadFiles(cmd.Context()); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		question := strings.Join(args, " ")
		reply, err := chat.Ask(cmd.Context(), question)
		if err != nil {
			return err
		}
		if reply == nil {
			return errors.New("question is empty")
		}
		renderReply(out, reply, cfg.Display)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	addSelectionFlags(askCmd)
}
