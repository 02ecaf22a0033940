package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UploadResult struct {
	Ready bool     `json:"ready"`
	Files []string `json:"files"`
}

type SelectFilesResult struct {
	Files     []string `json:"files"`
	TotalSize int64    `json:"total_size"`
}

type AskResult struct {
	Message *Message `json:"message"`
}
