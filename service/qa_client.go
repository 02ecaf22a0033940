package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/tieubaoca/chatpdf/types"
)

const (
	DefaultBackendURL  = "http://127.0.0.1:8000"
	DefaultUploadField = "files"

	NoResponseText = "(no response)"
)

// QAClient is the part of the document QA backend the chat client talks to.
type QAClient interface {
	Upload(ctx context.Context, set types.UploadSet) error
	Ask(ctx context.Context, question string) (*types.AskResponse, error)
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend error: %d - %s", e.StatusCode, e.Body)
}

type DocumentQAClient struct {
	BaseURL    string
	FieldName  string
	HTTPClient *http.Client
}

// NewDocumentQAClient creates a client for the backend at baseURL.
// A zero timeout leaves requests unbounded.
func NewDocumentQAClient(baseURL, fieldName string, timeout time.Duration) *DocumentQAClient {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	if fieldName == "" {
		fieldName = DefaultUploadField
	}
	return &DocumentQAClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		FieldName: fieldName,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Upload posts every file of the set as a separate part under the same field.
func (c *DocumentQAClient) Upload(ctx context.Context, set types.UploadSet) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range set {
		part, err := writer.CreatePart(filePartHeader(c.FieldName, f))
		if err != nil {
			return fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("failed to write form part: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Ask posts the question and decodes the JSON body whatever the status code is.
func (c *DocumentQAClient) Ask(ctx context.Context, question string) (*types.AskResponse, error) {
	jsonBody, err := json.Marshal(types.AskRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	result, err := decodeAskResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	return result, nil
}

var errInvalidJSON = errors.New("response body is not valid JSON")

// decodeAskResponse accepts any valid JSON document. Only string-valued
// answer and error members of an object are kept; every other shape
// yields an empty response.
func decodeAskResponse(body []byte) (*types.AskResponse, error) {
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// valid JSON, but not an object
		return &types.AskResponse{}, nil
	}
	return &types.AskResponse{
		Answer: stringField(fields, "answer"),
		Error:  stringField(fields, "error"),
	}, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return v
}

// ResolveAnswerText picks the text shown for a backend reply.
func ResolveAnswerText(resp *types.AskResponse) string {
	if resp == nil {
		return NoResponseText
	}
	if resp.Answer != "" {
		return resp.Answer
	}
	if resp.Error != "" {
		return resp.Error
	}
	return NoResponseText
}

func filePartHeader(field string, f types.FileBlob) textproto.MIMEHeader {
	contentType := f.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(filepath.Base(f.Name))))
	h.Set("Content-Type", contentType)
	return h
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
