// Package relay normalizes the remote 3D generation collaborator into plain
// result values. Callers always receive a GenerationResult, never an error:
// transport failures and failed tasks both land in the result's status.
package relay

import (
	"context"

	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/tripo"
	"github.com/lunavein/tripo-relay-go/types"
)

// Generator drives single- and multi-view synthesis tasks through the Tripo
// client and downloads the resulting model files.
type Generator struct {
	client    *tripo.Client
	outputDir string
}

func NewGenerator(client *tripo.Client, outputDir string) *Generator {
	return &Generator{
		client:    client,
		outputDir: outputDir,
	}
}

// GenerateFromImages runs one generation task for the batch and blocks until
// it reaches a terminal state. One image selects the single-image entry point,
// several select multi-view; the choice is made exactly once per batch.
func (g *Generator) GenerateFromImages(ctx context.Context, imagePaths []string) types.GenerationResult {
	if len(imagePaths) == 0 {
		return types.GenerationResult{
			Status: types.GenerationError,
			Detail: "no images in batch",
		}
	}

	var (
		taskID string
		err    error
	)
	if len(imagePaths) == 1 {
		tool.DefaultLogger.Infof("[Relay] Generating 3D model from single image")
		taskID, err = g.client.ImageToModel(ctx, imagePaths[0])
	} else {
		tool.DefaultLogger.Infof("[Relay] Generating 3D model from %d images (multi-view)", len(imagePaths))
		taskID, err = g.client.MultiviewToModel(ctx, imagePaths)
	}
	if err != nil {
		tool.DefaultLogger.Errorf("[Relay] Task submission failed: %v", err)
		return types.GenerationResult{Status: types.GenerationError, Detail: err.Error()}
	}

	task, err := g.client.WaitForTask(ctx, taskID)
	if err != nil {
		tool.DefaultLogger.Errorf("[Relay] Task %s wait failed: %v", taskID, err)
		return types.GenerationResult{Status: types.GenerationError, Detail: err.Error()}
	}
	if task.Status != tripo.StatusSuccess {
		tool.DefaultLogger.Errorf("[Relay] Task %s ended as %s", taskID, task.Status)
		return types.GenerationResult{
			Status: types.GenerationFailed,
			Detail: "task " + taskID + " ended as " + task.Status,
		}
	}

	files, err := g.client.DownloadTaskModels(ctx, task, g.outputDir)
	if err != nil {
		tool.DefaultLogger.Errorf("[Relay] Task %s model download failed: %v", taskID, err)
		return types.GenerationResult{Status: types.GenerationError, Detail: err.Error()}
	}

	tool.DefaultLogger.Infof("[Relay] Task %s complete, %d output files", taskID, len(files))
	return types.GenerationResult{Status: types.GenerationSuccess, Files: files}
}
