// Package controllers holds the HTTP handlers of the relay. Collaborators are
// taken as interfaces so the stream pipeline can be exercised without the
// remote services.
package controllers

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lunavein/tripo-relay-go/types"
)

// ModelGenerator is the generation collaborator boundary. Implementations
// return result values, never errors (failures are carried in the status).
type ModelGenerator interface {
	GenerateFromImages(ctx context.Context, imagePaths []string) types.GenerationResult
}

// ModelPublisher is the storage collaborator boundary.
type ModelPublisher interface {
	PublishModels(ctx context.Context, localPaths []string) ([]string, error)
}

// stageBatch writes an upload batch under a fresh token-scoped folder and
// returns the token plus the staged paths. Any failure removes the whole
// folder so a token never refers to a partial batch.
func stageBatch(c *gin.Context, uploadDir string, files []*multipart.FileHeader) (string, []string, error) {
	token := uuid.NewString()
	sessionDir := filepath.Join(uploadDir, token)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create staging dir: %w", err)
	}

	saved := make([]string, 0, len(files))
	for i, fh := range files {
		name := filepath.Base(fh.Filename)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = fmt.Sprintf("file_%d", i)
		}
		dst := filepath.Join(sessionDir, name)
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			if rmErr := os.RemoveAll(sessionDir); rmErr != nil {
				return "", nil, fmt.Errorf("stage %s: %v (cleanup failed: %v)", name, err, rmErr)
			}
			return "", nil, fmt.Errorf("stage %s: %w", name, err)
		}
		saved = append(saved, dst)
	}
	return token, saved, nil
}
