package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/lunavein/tripo-relay-go/tool"
)

type OutputController struct {
	outputDir string
}

func NewOutputController(outputDir string) *OutputController {
	return &OutputController{
		outputDir: outputDir,
	}
}

// HandleServeOutput serves a generated model file from the local output
// folder. filepath.Base strips any traversal attempt from the parameter.
// GET /output/:filename
func (ctrl *OutputController) HandleServeOutput(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	if filename == "." || filename == string(filepath.Separator) {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid filename"))
		return
	}

	path := filepath.Join(ctrl.outputDir, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, tool.FastReturnError("File not found"))
		return
	}

	c.Header("Content-Type", "model/gltf-binary")
	c.File(path)
}
