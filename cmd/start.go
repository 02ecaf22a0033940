/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/chatpdf/handler"
	"github.com/tieubaoca/chatpdf/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the chat page in the browser",
	Long:  `Starts a local server with the chat page, talking to the document QA backend`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); cmd.Flags().Changed("listen") {
			cfg.Listen = listen
		}

		chatService := service.NewChatService(newQAClient(cfg), service.LogNotifier{})
		wsService := service.NewWebSocketService(chatService)
		chatService.AddObserver(wsService)
		chatService.AddNotifier(wsService)

		router, err := handler.SetupRouter(chatService, wsService)
		if err != nil {
			return fmt.Errorf("failed to set up routes: %w", err)
		}

		log.Printf("Using backend %s", cfg.BackendURL)
		log.Printf("Starting server on http://%s ...", cfg.Listen)
		if err := router.Run(cfg.Listen); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("listen", "l", "", "address to listen on (overrides config)")
}
