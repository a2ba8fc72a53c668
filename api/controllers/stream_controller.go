package controllers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/lunavein/tripo-relay-go/api/models"
	"github.com/lunavein/tripo-relay-go/api/notifyhub"
	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

// Fixed progress checkpoints. They are illustrative, not proportional to real
// work; the remote collaborator exposes no usable progress signal. Clients may
// rely on monotonicity only.
const (
	checkpointReceived   = 10
	checkpointGenerating = 30
	checkpointOptimizing = 70
	checkpointDone       = 100
)

type StreamController struct {
	generator  ModelGenerator
	publisher  ModelPublisher
	genTimeout time.Duration
	hub        *notifyhub.Hub // nil when the monitor websocket is disabled
}

func NewStreamController(generator ModelGenerator, publisher ModelPublisher, genTimeout time.Duration, hub *notifyhub.Hub) *StreamController {
	if genTimeout <= 0 {
		genTimeout = 15 * time.Minute
	}
	return &StreamController{
		generator:  generator,
		publisher:  publisher,
		genTimeout: genTimeout,
		hub:        hub,
	}
}

// HandleGenerateModelStream drives one client connection from token lookup to
// a single terminal event. Every emit checks for client disconnect first, so
// a dropped connection stops the event flow without killing in-flight work.
// GET /generate-3d-model-stream?token=<token>
func (ctrl *StreamController) HandleGenerateModelStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	token := c.Query("token")
	images, ok := models.GetUploadSession(token)
	if !ok || len(images) == 0 {
		ctrl.emit(c, token, types.EventError, types.ErrorPayload{Message: "Invalid or expired token"})
		return
	}

	if !ctrl.progress(c, token, checkpointReceived, fmt.Sprintf("%d images received", len(images))) {
		return
	}
	if !ctrl.progress(c, token, checkpointGenerating, "Starting 3D model generation...") {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctrl.genTimeout)
	defer cancel()

	result := ctrl.generator.GenerateFromImages(ctx, images)
	if !result.Succeeded() {
		ctrl.emit(c, token, types.EventError, types.ErrorPayload{Message: generationErrorMessage(ctx, result)})
		return
	}

	if !ctrl.progress(c, token, checkpointOptimizing, "Optimizing final model...") {
		return
	}

	urls, err := ctrl.publisher.PublishModels(ctx, sortedFilePaths(result.Files))
	if err != nil {
		tool.DefaultLogger.Errorf("[Stream] Publish failed for token %s: %v", token, err)
		ctrl.emit(c, token, types.EventError, types.ErrorPayload{Message: "Failed to publish model files"})
		return
	}
	if len(urls) == 0 {
		ctrl.emit(c, token, types.EventError, types.ErrorPayload{Message: "Generation produced no model files"})
		return
	}

	if !ctrl.progress(c, token, checkpointDone, "Model completed!") {
		return
	}

	ctrl.emit(c, token, types.EventComplete, types.CompletePayload{
		ModelURL:  urls[0],
		ModelURLs: urls,
	})
}

func (ctrl *StreamController) progress(c *gin.Context, token string, percent int, message string) bool {
	return ctrl.emit(c, token, types.EventProgress, types.ProgressPayload{
		Percent: percent,
		Message: message,
	})
}

// emit writes one SSE event and flushes it. Returns false when the client is
// gone; callers must stop emitting then.
func (ctrl *StreamController) emit(c *gin.Context, token, event string, payload any) bool {
	select {
	case <-c.Request.Context().Done():
		tool.DefaultLogger.Debugf("[Stream] Client gone, dropping %s event for token %s", event, token)
		return false
	default:
	}

	data, err := sonic.MarshalString(payload)
	if err != nil {
		tool.DefaultLogger.Errorf("[Stream] Failed to encode %s payload: %v", event, err)
		return false
	}
	c.SSEvent(event, data)
	c.Writer.Flush()

	if ctrl.hub != nil {
		ctrl.hub.Broadcast(&types.StreamNotice{Token: token, Event: event, Payload: payload})
	}
	return true
}

// generationErrorMessage keeps the collaborator's detail when present and
// names the timeout case explicitly.
func generationErrorMessage(ctx context.Context, result types.GenerationResult) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "Model generation timed out"
	}
	if result.Detail != "" {
		return "Model generation failed: " + result.Detail
	}
	return "Model generation failed"
}

// sortedFilePaths flattens the output name->path mapping into a stable order.
func sortedFilePaths(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, files[name])
	}
	return paths
}
