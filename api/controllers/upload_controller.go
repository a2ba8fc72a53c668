package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunavein/tripo-relay-go/api/models"
	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

type UploadController struct {
	uploadDir string
}

func NewUploadController(uploadDir string) *UploadController {
	return &UploadController{
		uploadDir: uploadDir,
	}
}

// HandleUploadImages accepts a multipart image batch and returns the token a
// later stream request correlates with.
// POST /upload-images
func (ctrl *UploadController) HandleUploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		tool.DefaultLogger.Errorf("[Upload] Failed to parse multipart form: %v", err)
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
		tool.DefaultLogger.Errorf("[Upload] Staging failed: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to store uploaded files"))
		return
	}

	models.PutUploadSession(token, saved)
	tool.DefaultLogger.Infof("[Upload] Received %d image(s), token=%s", len(saved), token)

	c.JSON(http.StatusOK, types.UploadResponse{
		Status:  "success",
		Token:   token,
		Count:   len(saved),
		Message: "Images uploaded successfully.",
	})
}
