package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Version is the leafcheck release version.
const Version = "0.4.0"

// DefaultLabels are the PlantVillage tomato classes in model output order.
var DefaultLabels = []string{
	"Tomato_Bacterial_spot",
	"Tomato_Early_blight",
	"Tomato_Late_blight",
	"Tomato_Leaf_Mold",
	"Tomato_Septoria_leaf_spot",
	"Tomato_Spider_mites_Two_spotted_spider_mite",
	"Tomato_Target_Spot",
	"Tomato_Tomato_YellowLeaf_Curl_Virus",
	"Tomato_Tomato_mosaic_virus",
	"Tomato_healthy",
}

// Config holds all leafcheck configuration.
type Config struct {
	Server        ServerConfig
	Model         ModelConfig
	KnowledgePath string // empty means the built-in table
	Log           LogConfig
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr            string
	GinMode         string // "debug", "release", "test"
	MaxUploadMB     int
	ShutdownTimeout time.Duration
}

// ModelConfig holds model artifact locations and label sets.
type ModelConfig struct {
	Path          string
	RuntimeLib    string // empty means next to the model file
	Labels        []string
	InputSize     int
	TextPath      string
	TextVocabPath string
	TextLabels    []string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr:            getenv("LEAFCHECK_ADDR", ":8000"),
			GinMode:         getenv("LEAFCHECK_GIN_MODE", "release"),
			MaxUploadMB:     getenvInt("LEAFCHECK_MAX_UPLOAD_MB", 10),
			ShutdownTimeout: getenvDuration("LEAFCHECK_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Model: ModelConfig{
			Path:          getenv("LEAFCHECK_MODEL_PATH", "models/tomato_model.onnx"),
			RuntimeLib:    os.Getenv("LEAFCHECK_ORT_LIB"),
			Labels:        getenvList("LEAFCHECK_LABELS", DefaultLabels),
			InputSize:     getenvInt("LEAFCHECK_INPUT_SIZE", 224),
			TextPath:      getenv("LEAFCHECK_TEXT_MODEL_PATH", "models/spam_model.onnx"),
			TextVocabPath: getenv("LEAFCHECK_TEXT_VOCAB_PATH", "models/spam_vocab.tsv"),
			TextLabels:    getenvList("LEAFCHECK_TEXT_LABELS", []string{"ham", "spam"}),
		},
		KnowledgePath: os.Getenv("LEAFCHECK_KNOWLEDGE_PATH"),
		Log: LogConfig{
			Level:  getenv("LEAFCHECK_LOG_LEVEL", "info"),
			Format: getenv("LEAFCHECK_LOG_FORMAT", "json"),
		},
	}
}

// LoadEnvFile exports the variables in a dotenv file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	return nil
}

// Validate checks the config for invalid values. Model files are not checked:
// a missing artifact leaves the service up with that model unavailable.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("LEAFCHECK_ADDR must not be empty"))
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("invalid gin mode %q: must be debug, release, or test", c.Server.GinMode))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("max upload size must be positive, got %d MB", c.Server.MaxUploadMB))
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be non-negative, got %v", c.Server.ShutdownTimeout))
	}
	if c.Model.InputSize <= 0 {
		errs = append(errs, fmt.Errorf("input size must be positive, got %d", c.Model.InputSize))
	}
	if err := checkLabels("image", c.Model.Labels); err != nil {
		errs = append(errs, err)
	}
	if err := checkLabels("text", c.Model.TextLabels); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q: must be json or console", c.Log.Format))
	}

	return errors.Join(errs...)
}

func checkLabels(kind string, labels []string) error {
	if len(labels) == 0 {
		return fmt.Errorf("%s labels must not be empty", kind)
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return fmt.Errorf("duplicate %s label %q", kind, l)
		}
		seen[l] = true
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// getenvList splits a comma-separated value, dropping empty entries.
func getenvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
