package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lunavein/tripo-relay-go/api"
	"github.com/lunavein/tripo-relay-go/api/models"
	"github.com/lunavein/tripo-relay-go/api/notifyhub"
	"github.com/lunavein/tripo-relay-go/relay"
	"github.com/lunavein/tripo-relay-go/storage"
	"github.com/lunavein/tripo-relay-go/tool"
	"github.com/lunavein/tripo-relay-go/tripo"
)

func main() {
	cfg := tool.SetFlags()
	appCfg, err := tool.LoadConfig(cfg.UseConfigPath)
	if err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	if cfg.UseUploadFolder != "" {
		appCfg.UploadFolder = cfg.UseUploadFolder
	}
	if cfg.UseOutputFolder != "" {
		appCfg.OutputFolder = cfg.UseOutputFolder
	}
	if cfg.UsePort > 0 {
		appCfg.Port = cfg.UsePort
	}
	if cfg.SkipProgressWS {
		appCfg.ProgressWSEnabled = false
	}
	// GET /config reports the effective settings, flag overrides included.
	tool.CurrentConfig = appCfg

	tool.InitLogger()
	switch strings.ToLower(cfg.Log) {
	case "", "dev":
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	case "prod":
		tool.DefaultLogger.SetLevel(log.InfoLevel)
	case "none":
		tool.DefaultLogger.SetLevel(log.FatalLevel)
	default:
		tool.DefaultLogger.Warnf("Unknown log mode %q, using debug level", cfg.Log)
		tool.DefaultLogger.SetLevel(log.DebugLevel)
	}

	// Collaborator credentials are required up front; a relay without either
	// backend cannot serve anything.
	apiKey := os.Getenv("TRIPO3D_API_KEY")
	if apiKey == "" {
		tool.DefaultLogger.Fatalf("Missing TRIPO3D_API_KEY environment variable")
	}
	bucket := appCfg.Storage.Bucket
	if bucket == "" {
		bucket = os.Getenv("S3_BUCKET")
	}
	if bucket == "" {
		tool.DefaultLogger.Fatalf("Missing storage bucket: set storage.bucket in config or the S3_BUCKET environment variable")
	}

	for _, dir := range []string{appCfg.UploadFolder, appCfg.OutputFolder} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			tool.DefaultLogger.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	models.InitSessionStore(tool.SessionTTL(&appCfg))

	tripoClient := tripo.NewClient(appCfg.Generation.BaseURL, apiKey, tool.NewHTTPClient())
	if appCfg.Generation.PollIntervalSeconds > 0 {
		tripoClient.SetPollInterval(time.Duration(appCfg.Generation.PollIntervalSeconds) * time.Second)
	}
	generator := relay.NewGenerator(tripoClient, appCfg.OutputFolder)

	publisher, err := storage.NewPublisher(context.Background(), appCfg.Storage, bucket)
	if err != nil {
		tool.DefaultLogger.Fatalf("Failed to initialize storage publisher: %v", err)
	}

	var hub *notifyhub.Hub
	if appCfg.ProgressWSEnabled {
		hub = notifyhub.New()
	}

	apiServer := api.NewServer(&appCfg, generator, publisher, hub)
	if err := apiServer.Start(); err != nil {
		tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
	}
}
