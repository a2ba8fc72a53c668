package types

// UploadResponse is returned by POST /upload-images.
type UploadResponse struct {
	Status  string `json:"status"`
	Token   string `json:"token"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// GenerateResponse is returned by the non-streaming POST /generate-3d-model.
type GenerateResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	FileURLs []string `json:"file_urls,omitempty"`
}
