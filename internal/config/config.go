package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Upload     UploadConfig
	Raster     RasterConfig
	Generation GenerationConfig
	CORS       CORSConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// UploadConfig holds batch upload limits.
type UploadConfig struct {
	MaxFiles       int   `mapstructure:"max_files"`
	MaxFileSizeMB  int64 `mapstructure:"max_file_size_mb"`
	MaxTotalSizeMB int64 `mapstructure:"max_total_size_mb"`
}

// MaxFileBytes returns the per-file size cap in bytes.
func (u *UploadConfig) MaxFileBytes() int64 { return u.MaxFileSizeMB * 1024 * 1024 }

// MaxTotalBytes returns the aggregate size cap in bytes.
func (u *UploadConfig) MaxTotalBytes() int64 { return u.MaxTotalSizeMB * 1024 * 1024 }

// RasterConfig holds page rasterization settings.
type RasterConfig struct {
	PDFZoomFactor float64 `mapstructure:"pdf_zoom_factor"`
	JPEGQuality   int     `mapstructure:"jpeg_quality"`
}

// GenerationConfig holds generation-service settings. Two logical models are
// configured: one for per-page extraction, one for column standardization.
type GenerationConfig struct {
	Provider           string  `mapstructure:"provider"`
	APIKey             string  `mapstructure:"api_key"`
	ExtractionModel    string  `mapstructure:"extraction_model"`
	StandardizeModel   string  `mapstructure:"standardize_model"`
	Temperature        float64 `mapstructure:"temperature"`
	MaxRetries         int     `mapstructure:"max_retries"`
	TimeoutSecs        int     `mapstructure:"timeout_secs"`
	Endpoint           string  `mapstructure:"endpoint"`
	MaxCompletionToken int     `mapstructure:"max_completion_tokens"`
}

// ModelConfig returns a copy of the generation config bound to one model name.
func (g *GenerationConfig) ModelConfig(model string) GenerationConfig {
	out := *g
	out.ExtractionModel = model
	return out
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a local .env file (if present) and
// environment variables with the INVOICR_ prefix.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("INVOICR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Upload defaults
	v.SetDefault("upload.max_files", 20)
	v.SetDefault("upload.max_file_size_mb", 50)
	v.SetDefault("upload.max_total_size_mb", 200)

	// Raster defaults
	v.SetDefault("raster.pdf_zoom_factor", 2.0)
	v.SetDefault("raster.jpeg_quality", 85)

	// Generation defaults
	v.SetDefault("generation.provider", "groq")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.extraction_model", "meta-llama/llama-4-scout-17b-16e-instruct")
	v.SetDefault("generation.standardize_model", "llama-3.1-8b-instant")
	v.SetDefault("generation.temperature", 0.0)
	v.SetDefault("generation.max_retries", 3)
	v.SetDefault("generation.timeout_secs", 120)
	v.SetDefault("generation.endpoint", "")
	v.SetDefault("generation.max_completion_tokens", 8192)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// viper reads comma-separated env lists as a single string
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
