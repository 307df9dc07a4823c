package utils

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Client configuration
	APIBaseURL            string `yaml:"API_BASE_URL"`
	HTTPTimeout           string `yaml:"HTTP_TIMEOUT"`
	LocalStorePath        string `yaml:"LOCAL_STORE_PATH"`
	PhotoDir              string `yaml:"PHOTO_DIR"`
	PhotoFallbackDir      string `yaml:"PHOTO_FALLBACK_DIR"`
	Workers               int    `yaml:"WORKERS"`
	CreateOnUploadFailure bool   `yaml:"CREATE_ON_UPLOAD_FAILURE"`

	// Event publishing
	KafkaBrokers string `yaml:"KAFKA_BROKERS"`
	KafkaTopic   string `yaml:"KAFKA_TOPIC"`

	// Logging
	LogLevel  string `yaml:"LOG_LEVEL"`
	LogFormat string `yaml:"LOG_FORMAT"`

	// Devserver database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Devserver tokens and tickets
	JWTSecret  string `yaml:"JWT_SECRET"`
	RedisAddr  string `yaml:"REDIS_ADDR"`
	TicketTTL  string `yaml:"TICKET_TTL"`
	ServerAddr string `yaml:"SERVER_ADDR"`
	RateLimit  int    `yaml:"RATE_LIMIT"`

	// AWS S3 configuration
	AWSS3Bucket   string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region   string `yaml:"AWS_S3_REGION"`
	AWSAccessKey  string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey  string `yaml:"AWS_SECRET_KEY"`
	AWSS3Endpoint string `yaml:"AWS_S3_ENDPOINT"`
	PublicBaseURL string `yaml:"PUBLIC_BASE_URL"`
}

var (
	config   Config
	configMu sync.RWMutex
)

var defaults = map[string]string{
	"API_BASE_URL":       "http://localhost:8080",
	"HTTP_TIMEOUT":       "30s",
	"LOCAL_STORE_PATH":   "invoice-capture.db",
	"PHOTO_DIR":          "photos",
	"PHOTO_FALLBACK_DIR": os.TempDir(),
	"WORKERS":            "1",
	"KAFKA_TOPIC":        "invoice-submissions",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "text",
	"DB_DRIVER":          "postgres",
	"TICKET_TTL":         "15m",
	"SERVER_ADDR":        ":8080",
	"RATE_LIMIT":         "50",
	"AWS_S3_REGION":      "us-east-1",
}

// LoadConfig reads the YAML file at path and reports whether it existed.
// A missing file is not an error: defaults and environment variables still apply.
func LoadConfig(path string) (bool, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	var loaded Config
	if err := yaml.Unmarshal(file, &loaded); err != nil {
		return false, err
	}

	configMu.Lock()
	config = loaded
	configMu.Unlock()
	return true, nil
}

// SetConfig replaces the loaded configuration. Used by tests and commands
// that build a config in code.
func SetConfig(c Config) {
	configMu.Lock()
	config = c
	configMu.Unlock()
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// GetConfig resolves key from the environment first, then the YAML file,
// then the built-in defaults.
func GetConfig(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := fileValue(key); v != "" {
		return v
	}
	return defaults[key]
}

func fileValue(key string) string {
	configMu.RLock()
	defer configMu.RUnlock()

	switch key {
	case "API_BASE_URL":
		return config.APIBaseURL
	case "HTTP_TIMEOUT":
		return config.HTTPTimeout
	case "LOCAL_STORE_PATH":
		return config.LocalStorePath
	case "PHOTO_DIR":
		return config.PhotoDir
	case "PHOTO_FALLBACK_DIR":
		return config.PhotoFallbackDir
	case "WORKERS":
		if config.Workers > 0 {
			return strconv.Itoa(config.Workers)
		}
		return ""
	case "CREATE_ON_UPLOAD_FAILURE":
		return getBoolString(config.CreateOnUploadFailure)
	case "KAFKA_BROKERS":
		return config.KafkaBrokers
	case "KAFKA_TOPIC":
		return config.KafkaTopic
	case "LOG_LEVEL":
		return config.LogLevel
	case "LOG_FORMAT":
		return config.LogFormat
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "REDIS_ADDR":
		return config.RedisAddr
	case "TICKET_TTL":
		return config.TicketTTL
	case "SERVER_ADDR":
		return config.ServerAddr
	case "RATE_LIMIT":
		if config.RateLimit > 0 {
			return strconv.Itoa(config.RateLimit)
		}
		return ""
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return config.AWSS3Endpoint
	case "PUBLIC_BASE_URL":
		return config.PublicBaseURL
	default:
		return ""
	}
}

func GetDuration(key string) time.Duration {
	d, err := time.ParseDuration(GetConfig(key))
	if err != nil {
		d, _ = time.ParseDuration(defaults[key])
	}
	return d
}

func GetInt(key string) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		n, _ = strconv.Atoi(defaults[key])
	}
	return n
}

func GetBool(key string) bool {
	b, _ := strconv.ParseBool(GetConfig(key))
	return b
}

// GetList splits a comma separated value, dropping blanks.
func GetList(key string) []string {
	var out []string
	for _, part := range strings.Split(GetConfig(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
