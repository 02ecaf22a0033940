package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/web"
)

// SetupRouter wires the local UI API, the websocket stream and the page.
func SetupRouter(chatService *service.ChatService, wsService *service.WebSocketService) (*gin.Engine, error) {
	corsHandler := NewCorsHandler()
	stateHandler := NewStateHandler(chatService)
	uploadHandler := NewUploadHandler(chatService)
	chatHandler := NewChatHandler(chatService)
	healthHandler := NewHealthHandler()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(corsHandler.CorsMiddleware)

	api := router.Group("/api")
	{
		api.GET("/state", stateHandler.HandleGetState)
		api.POST("/files", uploadHandler.HandleSelectFiles)
		api.POST("/upload", uploadHandler.HandleUpload)
		api.POST("/ask", chatHandler.HandleAsk)
	}
	router.GET("/ws", gin.WrapF(wsService.HandleConnection))
	router.GET("/healthz", healthHandler.HandleHealth)

	if err := web.RegisterStaticRoutes(router); err != nil {
		return nil, err
	}
	return router, nil
}
