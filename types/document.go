package types

// FileBlob is a single file selected for upload, held in memory
type FileBlob struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// UploadSet is the ordered list of files from the latest selection
type UploadSet []FileBlob

func (s UploadSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}

func (s UploadSet) TotalSize() int64 {
	var total int64
	for _, f := range s {
		total += int64(len(f.Data))
	}
	return total
}
