package tripo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/lunavein/tripo-relay-go/tool"
)

const DefaultBaseURL = "https://api.tripo3d.ai"

// Client talks to the Tripo3D OpenAPI over HTTPS with bearer authentication.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewClient creates a Tripo3D API client. An empty baseURL selects the public
// endpoint; a nil httpClient gets the shared pooled client.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = tool.NewHTTPClient()
	}
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		httpClient:   httpClient,
		pollInterval: 2 * time.Second,
	}
}

// SetPollInterval overrides the task polling interval.
func (c *Client) SetPollInterval(d time.Duration) {
	if d > 0 {
		c.pollInterval = d
	}
}

type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type uploadResponse struct {
	Data struct {
		ImageToken string `json:"image_token"`
	} `json:"data"`
}

type taskCreateResponse struct {
	Data struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
}

type taskGetResponse struct {
	Data Task `json:"data"`
}

type fileRef struct {
	Type      string `json:"type"`
	FileToken string `json:"file_token"`
}

// UploadImage stages a local image with the API and returns its file token.
func (c *Client) UploadImage(ctx context.Context, imagePath string) (string, error) {
	f, err := os.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(imagePath))
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finish multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/openapi/upload/sts", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var parsed uploadResponse
	if err := c.do(req, &parsed); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if parsed.Data.ImageToken == "" {
		return "", fmt.Errorf("upload image: empty image_token in response")
	}
	return parsed.Data.ImageToken, nil
}

// ImageToModel submits a single-image synthesis task and returns its task id.
func (c *Client) ImageToModel(ctx context.Context, imagePath string) (string, error) {
	token, err := c.UploadImage(ctx, imagePath)
	if err != nil {
		return "", err
	}
	payload := map[string]any{
		"type": "image_to_model",
		"file": fileRef{Type: fileType(imagePath), FileToken: token},
	}
	return c.createTask(ctx, payload)
}

// MultiviewToModel submits a multi-view synthesis task over several images of
// the same object and returns its task id.
func (c *Client) MultiviewToModel(ctx context.Context, imagePaths []string) (string, error) {
	files := make([]fileRef, 0, len(imagePaths))
	for _, p := range imagePaths {
		token, err := c.UploadImage(ctx, p)
		if err != nil {
			return "", err
		}
		files = append(files, fileRef{Type: fileType(p), FileToken: token})
	}
	payload := map[string]any{
		"type":  "multiview_to_model",
		"files": files,
	}
	return c.createTask(ctx, payload)
}

func (c *Client) createTask(ctx context.Context, payload map[string]any) (string, error) {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode task request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/openapi/task", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var parsed taskCreateResponse
	if err := c.do(req, &parsed); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	if parsed.Data.TaskID == "" {
		return "", fmt.Errorf("create task: empty task_id in response")
	}
	tool.DefaultLogger.Infof("[Tripo] Task started: %s", parsed.Data.TaskID)
	return parsed.Data.TaskID, nil
}

// GetTask fetches the current state of a task.
func (c *Client) GetTask(ctx context.Context, taskID string) (*Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/openapi/task/"+taskID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var parsed taskGetResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, fmt.Errorf("get task %s: %w", taskID, err)
	}
	return &parsed.Data, nil
}

// WaitForTask polls until the task reaches a terminal status or the context
// is done. The caller bounds the wait through ctx.
func (c *Client) WaitForTask(ctx context.Context, taskID string) (*Task, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		task, err := c.GetTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if task.IsTerminal() {
			return task, nil
		}
		tool.DefaultLogger.Debugf("[Tripo] Task %s: %s (%d%%)", taskID, task.Status, task.Progress)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// DownloadTaskModels fetches every artifact of a successful task into
// outputDir and returns output name -> local path.
func (c *Client) DownloadTaskModels(ctx context.Context, task *Task, outputDir string) (map[string]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := make(map[string]string)
	for name, rawURL := range task.downloadSet() {
		localPath := filepath.Join(outputDir, task.TaskID+"_"+name+downloadExt(rawURL))
		if err := c.downloadFile(ctx, rawURL, localPath); err != nil {
			return nil, fmt.Errorf("download %s: %w", name, err)
		}
		files[name] = localPath
	}
	return files, nil
}

func (c *Client) downloadFile(ctx context.Context, rawURL, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(localPath)
		return err
	}
	return f.Close()
}

// do executes the request and decodes the standard response envelope. A
// non-zero envelope code is an application-level failure.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var env apiEnvelope
	if err := sonic.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Code != 0 {
		return fmt.Errorf("api error %d: %s", env.Code, env.Message)
	}
	return sonic.Unmarshal(raw, out)
}

// fileType maps an image path to the type tag the task API expects.
func fileType(imagePath string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(imagePath)), ".")
	if ext == "" {
		return "png"
	}
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// downloadExt picks the file extension from an artifact URL, ignoring query
// strings signed URLs carry.
func downloadExt(rawURL string) string {
	clean := rawURL
	if i := strings.IndexByte(clean, '?'); i >= 0 {
		clean = clean[:i]
	}
	if ext := path.Ext(clean); ext != "" {
		return ext
	}
	return ".glb"
}
