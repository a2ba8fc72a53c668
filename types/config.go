package types

// AppConfig is the persisted application configuration (config.yaml).
type AppConfig struct {
	Port              int    `yaml:"port"`
	UploadFolder      string `yaml:"upload_folder"`
	OutputFolder      string `yaml:"output_folder"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
	UploadRatePerSec  int    `yaml:"upload_rate_per_sec"`
	UploadRateBurst   int    `yaml:"upload_rate_burst"`
	ProgressWSEnabled bool   `yaml:"progress_ws_enabled"`

	Generation GenerationConfig `yaml:"generation"`
	Storage    StorageConfig    `yaml:"storage"`
}

// GenerationConfig configures the Tripo3D collaborator. The API key is never
// persisted, it comes from the TRIPO3D_API_KEY environment variable.
type GenerationConfig struct {
	BaseURL             string `yaml:"base_url"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	TimeoutMinutes      int    `yaml:"timeout_minutes"`
}

// StorageConfig configures the storage collaborator. Bucket comes from the
// S3_BUCKET environment variable when empty; credentials always come from the
// SDK default chain.
type StorageConfig struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`        // optional, for S3-compatible stores
	PublicBaseURL string `yaml:"public_base_url"` // optional, overrides derived public URLs
}

// ConfigResponse is the wire shape of GET /config. Collaborator credentials
// and storage details never appear here.
type ConfigResponse struct {
	Port                     int    `json:"port"`
	UploadFolder             string `json:"upload_folder"`
	OutputFolder             string `json:"output_folder"`
	SessionTTLMinutes        int    `json:"session_ttl_minutes"`
	UploadRatePerSec         int    `json:"upload_rate_per_sec"`
	UploadRateBurst          int    `json:"upload_rate_burst"`
	ProgressWSEnabled        bool   `json:"progress_ws_enabled"`
	GenerationTimeoutMinutes int    `json:"generation_timeout_minutes"`
}

// Config holds runtime overrides from CLI flags.
type Config struct {
	Log             string
	UseConfigPath   string
	UseUploadFolder string
	UseOutputFolder string
	UsePort         int
	SkipProgressWS  bool
}
