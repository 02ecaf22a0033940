/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/chatpdf/config"
	"github.com/tieubaoca/chatpdf/service"
)

var (
	cfgFile    string
	backendURL string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatpdf",
	Short: "Chat with PDF documents through a document QA backend",
	Long: `chatpdf uploads PDF files to a document QA backend and lets you ask
questions about them, from the terminal or from a local browser page.

The backend must expose POST /upload (multipart "files") and POST /ask
(JSON {"question"}).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
	rootCmd.PersistentFlags().StringVarP(&backendURL, "backend-url", "u", "", "base URL of the document QA backend (overrides config)")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("backend-url") {
		cfg.BackendURL = backendURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newQAClient(cfg *config.Config) *service.DocumentQAClient {
	return service.NewDocumentQAClient(cfg.BackendURL, cfg.UploadField, cfg.RequestTimeout)
}
