package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/types"
)

type StateHandler struct {
	chatService *service.ChatService
}

func NewStateHandler(chatService *service.ChatService) *StateHandler {
	return &StateHandler{
		chatService: chatService,
	}
}

func (h *StateHandler) HandleGetState(c *gin.Context) {
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   h.chatService.State(),
	})
}
