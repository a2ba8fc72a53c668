package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/types"
)

// HandleStatus reports liveness for web UIs and load balancers.
// GET /status
func HandleStatus(progressWSEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"running":             true,
			"progress_ws_enabled": progressWSEnabled,
		})
	}
}

// HandleConfigGet returns the active settings for monitor UIs.
// GET /config
func HandleConfigGet(c *gin.Context) {
	cfg := tool.GetCurrentConfig()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(types.ConfigResponse{
		Port:                     cfg.Port,
		UploadFolder:             cfg.UploadFolder,
		OutputFolder:             cfg.OutputFolder,
		SessionTTLMinutes:        cfg.SessionTTLMinutes,
		UploadRatePerSec:         cfg.UploadRatePerSec,
		UploadRateBurst:          cfg.UploadRateBurst,
		ProgressWSEnabled:        cfg.ProgressWSEnabled,
		GenerationTimeoutMinutes: cfg.Generation.TimeoutMinutes,
	}))
}
