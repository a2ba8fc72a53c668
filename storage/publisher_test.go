package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterModelFiles(t *testing.T) {
	paths := []string{
		"output/task1_model.glb",
		"output/task1_rendered_image.webp",
		"output/task1_base_model.GLB",
		"output/notes.txt",
	}
	got := FilterModelFiles(paths)
	assert.Equal(t, []string{"output/task1_model.glb", "output/task1_base_model.GLB"}, got)
}

func TestDeriveKey(t *testing.T) {
	key := DeriveKey(1700000000, "/tmp/output/task1_model.glb")
	assert.Equal(t, "models/1700000000_task1_model.glb", key)
}

type fakeS3 struct {
	srv          *httptest.Server
	putPaths     []string
	contentTypes []string
	failAll      bool
}

func newFakeS3(t *testing.T) *fakeS3 {
	t.Helper()
	f := &fakeS3{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if f.failAll {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		f.putPaths = append(f.putPaths, r.URL.Path)
		f.contentTypes = append(f.contentTypes, r.Header.Get("Content-Type"))
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeS3) client() *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint:     aws.String(f.srv.URL),
		Region:           "us-east-1",
		Credentials:      aws.AnonymousCredentials{},
		UsePathStyle:     true,
		RetryMaxAttempts: 1,
	})
}

func writeModelFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("glb bytes"), 0o644))
	return path
}

func TestPublishModels(t *testing.T) {
	f := newFakeS3(t)
	pub := NewPublisherWithClient(f.client(), "test-bucket", "us-east-1", "")

	urls, err := pub.PublishModels(context.Background(), []string{writeModelFile(t, "mesh.glb")})
	require.NoError(t, err)
	require.Len(t, urls, 1)

	assert.True(t, strings.HasPrefix(urls[0], "https://test-bucket.s3.us-east-1.amazonaws.com/models/"), urls[0])
	assert.True(t, strings.HasSuffix(urls[0], "_mesh.glb"), urls[0])

	require.Len(t, f.putPaths, 1)
	assert.True(t, strings.HasPrefix(f.putPaths[0], "/test-bucket/models/"), f.putPaths[0])
	assert.Equal(t, "model/gltf-binary", f.contentTypes[0])
}

func TestPublishModelsPublicBaseURL(t *testing.T) {
	f := newFakeS3(t)
	pub := NewPublisherWithClient(f.client(), "test-bucket", "us-east-1", "https://cdn.example.com/")

	urls, err := pub.PublishModels(context.Background(), []string{writeModelFile(t, "mesh.glb")})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.True(t, strings.HasPrefix(urls[0], "https://cdn.example.com/models/"), urls[0])
}

func TestPublishModelsSkipsNonModelFiles(t *testing.T) {
	f := newFakeS3(t)
	pub := NewPublisherWithClient(f.client(), "test-bucket", "us-east-1", "")

	urls, err := pub.PublishModels(context.Background(), []string{"render.webp", "notes.txt"})
	require.NoError(t, err)
	assert.Empty(t, urls)
	assert.Empty(t, f.putPaths, "non-model files must never be uploaded")
}

func TestPublishModelsAbortsOnFailure(t *testing.T) {
	f := newFakeS3(t)
	f.failAll = true
	pub := NewPublisherWithClient(f.client(), "test-bucket", "us-east-1", "")

	urls, err := pub.PublishModels(context.Background(), []string{writeModelFile(t, "mesh.glb")})
	require.Error(t, err)
	assert.Nil(t, urls)
}
