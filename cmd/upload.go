/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/types"
	"github.com/tieubaoca/chatpdf/utils"
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload documents to the backend for processing",
	Long: `Reads the given files and directories and sends them to the backend
in a single multipart request.

  chatpdf upload -f manual.pdf -d ./docs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		set, err := readSelection(cmd, args, cfg.Accept)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		chat := service.NewChatService(newQAClient(cfg), consoleNotifier{out: out})
		chat.SelectFiles(set)
		fmt.Fprintf(out, "📤 Uploading %d file(s)...\n", len(set))
		if _, err := chat.UploadFiles(cmd.Context()); err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	addSelectionFlags(uploadCmd)
}

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("file", "f", []string{}, "Path to a file to upload (repeatable)")
	cmd.Flags().StringArrayP("directory", "d", []string{}, "Directory whose matching files are uploaded (repeatable)")
}

// readSelection gathers --file and --directory values plus extra paths.
func readSelection(cmd *cobra.Command, extra []string, accept string) (types.UploadSet, error) {
	files, _ := cmd.Flags().GetStringArray("file")
	dirs, _ := cmd.Flags().GetStringArray("directory")

	paths := make([]string, 0, len(files)+len(dirs)+len(extra))
	paths = append(paths, files...)
	paths = append(paths, dirs...)
	paths = append(paths, extra...)
	if len(paths) == 0 {
		return nil, errors.New("no files given, use --file or --directory")
	}
	return utils.LoadUploadSet(paths, accept)
}
