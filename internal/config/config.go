package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr         string        `yaml:"addr"`
	JWTSecret    string        `yaml:"jwt_secret"`
	APITimeout   time.Duration `yaml:"timeout"`
	DatabasePath string        `yaml:"database_path"`
	Engine       EngineConfig  `yaml:"engine"`
	Ollama       OllamaConfig  `yaml:"ollama"`
	Blob         BlobConfig    `yaml:"blob"`
	Audio        AudioConfig   `yaml:"audio"`
}

// EngineConfig tunes the interview processing pipeline. The two named
// thresholds deliberately stay configuration rather than constants: the
// work-style minimum gates the LLM call entirely, and the pairing tolerance
// bounds emotion-to-utterance matching.
type EngineConfig struct {
	Model                string        `yaml:"model"`
	Timeout              time.Duration `yaml:"timeout"`
	MinWorkStyleMessages int           `yaml:"min_work_style_messages"`
	PairingTolerance     time.Duration `yaml:"pairing_tolerance"`
	BriefWordLimit       int           `yaml:"brief_word_limit"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	DefaultModelNames       []string      `yaml:"models"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

type BlobConfig struct {
	BaseDir string `yaml:"base_dir"`
	BaseURL string `yaml:"base_url"`
}

type AudioConfig struct {
	FFmpegPath   string `yaml:"ffmpeg_path"`
	TargetFormat string `yaml:"target_format"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:         getEnv("TWIN_ADDR", ":8080"),
		JWTSecret:    getEnv("TWIN_JWT_SECRET", "supersecretkey"),
		APITimeout:   15 * time.Second,
		DatabasePath: getEnv("TWIN_DATABASE_PATH", "twinhire.db"),
		Engine: EngineConfig{
			Model:                getEnv("TWIN_MODEL", "llama3"),
			Timeout:              20 * time.Second,
			MinWorkStyleMessages: 4,
			PairingTolerance:     5 * time.Second,
			BriefWordLimit:       200,
		},
		Ollama: OllamaConfig{
			BaseURL:                 getEnv("TWIN_OLLAMA_URL", "http://localhost:11434"),
			Timeout:                 30 * time.Second,
			Retries:                 1,
			Backoff:                 500 * time.Millisecond,
			CircuitFailureThreshold: 5,
			CircuitReset:            30 * time.Second,
		},
		Blob: BlobConfig{
			BaseDir: getEnv("TWIN_BLOB_DIR", "blobs"),
			BaseURL: getEnv("TWIN_BLOB_URL", "http://localhost:8080/blobs"),
		},
		Audio: AudioConfig{
			FFmpegPath:   getEnv("TWIN_FFMPEG_PATH", "ffmpeg"),
			TargetFormat: "opus",
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects settings that would be unsafe or unusable at runtime. The
// default JWT secret is only tolerated when TWIN_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.Engine.Model == "" {
		return fmt.Errorf("engine model is required")
	}
	if c.JWTSecret == "" || c.JWTSecret == "supersecretkey" {
		if os.Getenv("TWIN_ENV") != "development" {
			return fmt.Errorf("insecure jwt secret; set TWIN_JWT_SECRET")
		}
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
