package tool

import (
	"flag"

	"github.com/lunavein/tripo-relay-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	var cfg types.Config
	flag.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	flag.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	flag.StringVar(&cfg.UseUploadFolder, "useUploadFolder", "", "override upload staging folder")
	flag.StringVar(&cfg.UseOutputFolder, "useOutputFolder", "", "override generated model output folder")
	flag.IntVar(&cfg.UsePort, "usePort", 0, "override HTTP listen port")
	flag.BoolVar(&cfg.SkipProgressWS, "skipProgressWS", false, "disable the progress monitor websocket")
	flag.Parse()
	return cfg
}
