package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/types"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}

	reply, err := h.chatService.Ask(c.Request.Context(), req.Question)
	switch {
	case errors.Is(err, service.ErrNotReady):
		c.JSON(http.StatusConflict, types.DataResponse{
			Status:  false,
			Message: service.NotReadyText,
		})
		return
	case errors.Is(err, service.ErrRequestPending):
		c.JSON(http.StatusConflict, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	if reply == nil {
		c.JSON(http.StatusOK, types.DataResponse{
			Status:  true,
			Message: "Empty question ignored",
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   types.AskResult{Message: reply},
	})
}
