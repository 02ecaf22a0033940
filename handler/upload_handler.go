package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/chatpdf/service"
	"github.com/tieubaoca/chatpdf/types"
	"github.com/tieubaoca/chatpdf/utils"
)

const maxSelectionSize = 64 << 20

// formField is the field the embedded page posts selected files under.
const formField = "files"

type UploadHandler struct {
	chatService *service.ChatService
}

func NewUploadHandler(chatService *service.ChatService) *UploadHandler {
	return &UploadHandler{
		chatService: chatService,
	}
}

// HandleSelectFiles replaces the selection with the files of this request.
// A request without files clears the selection.
func (h *UploadHandler) HandleSelectFiles(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSelectionSize)
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid form",
		})
		return
	}

	headers := form.File[formField]
	set := make(types.UploadSet, 0, len(headers))
	for _, header := range headers {
		blob, err := readFormFile(header)
		if err != nil {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  false,
				Message: "Invalid file",
			})
			return
		}
		set = append(set, blob)
	}

	h.chatService.SelectFiles(set)
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data: types.SelectFilesResult{
			Files:     set.Names(),
			TotalSize: set.TotalSize(),
		},
	})
}

func (h *UploadHandler) HandleUpload(c *gin.Context) {
	ready, err := h.chatService.UploadFiles(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		message := service.UploadErrorText
		var statusErr *service.StatusError
		switch {
		case errors.Is(err, service.ErrUploadInFlight):
			status = http.StatusConflict
			message = err.Error()
		case errors.As(err, &statusErr):
			message = service.UploadFailedText
		}
		c.JSON(status, types.DataResponse{
			Status:  false,
			Message: message,
			Data:    types.UploadResult{Ready: ready, Files: h.chatService.State().Files},
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status:  true,
		Message: service.UploadSuccessText,
		Data:    types.UploadResult{Ready: ready, Files: h.chatService.State().Files},
	})
}

func readFormFile(header *multipart.FileHeader) (types.FileBlob, error) {
	file, err := header.Open()
	if err != nil {
		return types.FileBlob{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return types.FileBlob{}, err
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = utils.DetectContentType(header.Filename)
	}
	return types.FileBlob{
		Name:        header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
