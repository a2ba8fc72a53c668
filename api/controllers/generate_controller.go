package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lunavein/tripo-relay-go/api/models"
	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

// GenerateController is the non-streaming path: one request stages the batch,
// waits out generation and publishing, and answers with plain JSON.
type GenerateController struct {
	uploadDir  string
	generator  ModelGenerator
	publisher  ModelPublisher
	genTimeout time.Duration
}

func NewGenerateController(uploadDir string, generator ModelGenerator, publisher ModelPublisher, genTimeout time.Duration) *GenerateController {
	if genTimeout <= 0 {
		genTimeout = 15 * time.Minute
	}
	return &GenerateController{
		uploadDir:  uploadDir,
		generator:  generator,
		publisher:  publisher,
		genTimeout: genTimeout,
	}
}

// HandleGenerateModel runs the whole pipeline synchronously.
// POST /generate-3d-model
func (ctrl *GenerateController) HandleGenerateModel(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid multipart form"))
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("At least one file is required"))
		return
	}

	token, saved, err := stageBatch(c, ctrl.uploadDir, files)
	if err != nil {
		tool.DefaultLogger.Errorf("[Generate] Staging failed: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to store uploaded files"))
		return
	}
	// The batch is tracked like a streamed one, so /output files and repeat
	// generation behave the same either way.
	models.PutUploadSession(token, saved)

	tool.DefaultLogger.Infof("[Generate] Received %d image(s), starting generation (token=%s)", len(saved), token)

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctrl.genTimeout)
	defer cancel()

	result := ctrl.generator.GenerateFromImages(ctx, saved)
	if !result.Succeeded() {
		c.JSON(http.StatusOK, types.GenerateResponse{
			Status:  "error",
			Message: generationErrorMessage(ctx, result),
		})
		return
	}

	urls, err := ctrl.publisher.PublishModels(ctx, sortedFilePaths(result.Files))
	if err != nil {
		tool.DefaultLogger.Errorf("[Generate] Publish failed: %v", err)
		c.JSON(http.StatusOK, types.GenerateResponse{
			Status:  "error",
			Message: "Failed to publish model files",
		})
		return
	}

	c.JSON(http.StatusOK, types.GenerateResponse{
		Status:   "success",
		Message:  "3D model generated successfully.",
		FileURLs: urls,
	})
}
