package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath dipakai kalau CONFIG_PATH kosong
const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		Driver   string `yaml:"driver"` // mysql | postgres | memory
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
		PublicURL  string `yaml:"publicURL"`
	} `yaml:"minio"`

	AI struct {
		Model          string  `yaml:"model"`
		Temperature    float32 `yaml:"temperature"`
		OpenAIBaseURL  string  `yaml:"openaiBaseURL"`
		VisionEndpoint string  `yaml:"visionEndpoint"`
		LanguageHint   string  `yaml:"languageHint"`

		// secrets, hanya dari environment
		OpenAIAPIKey string `yaml:"-"`
		VisionAPIKey string `yaml:"-"`
	} `yaml:"ai"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	Auth struct {
		APIKeys map[string]string `yaml:"apiKeys"` // name -> key
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int     `yaml:"capacity"`
		RefillRate float64 `yaml:"refillRate"` // token per detik
	} `yaml:"rateLimit"`

	Collector struct {
		Timezone string         `yaml:"timezone"`
		Sources  []SourceConfig `yaml:"sources"`
	} `yaml:"collector"`
}

// SourceConfig satu sumber laporan bencana
type SourceConfig struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"` // board | feed
	URL  string `yaml:"url"`

	// selector khusus board
	ItemSelector     string `yaml:"itemSelector"`
	TitleSelector    string `yaml:"titleSelector"`
	LinkSelector     string `yaml:"linkSelector"`
	DateSelector     string `yaml:"dateSelector"`
	LocationSelector string `yaml:"locationSelector"`
	SummarySelector  string `yaml:"summarySelector"`
	ImageSelector    string `yaml:"imageSelector"`
}

// PathFromEnv returns CONFIG_PATH or the default path.
func PathFromEnv() string {
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return DefaultPath
}

// Load baca file config.yaml
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadOrDefault seperti Load, tapi file yang tidak ada berarti semua default
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Parse(nil)
	}
	return cfg, err
}

// Parse decodes yaml, applies defaults and reads secrets from the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	cfg.AI.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.AI.VisionAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_VISION_API_KEY"))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "memory"
	}
	if c.Database.Port == 0 {
		switch c.Database.Driver {
		case "mysql":
			c.Database.Port = 3306
		case "postgres":
			c.Database.Port = 5432
		}
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gpt-4o-mini"
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = 0.2
	}
	if c.AI.LanguageHint == "" {
		c.AI.LanguageHint = "ko"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
	if c.Collector.Timezone == "" {
		c.Collector.Timezone = "Asia/Seoul"
	}
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres", "memory":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	for i, s := range c.Collector.Sources {
		if s.Name == "" || s.URL == "" {
			return fmt.Errorf("config: collector source %d needs name and url", i)
		}
		switch s.Kind {
		case "board":
			if s.ItemSelector == "" {
				return fmt.Errorf("config: board source %q needs itemSelector", s.Name)
			}
		case "feed":
		default:
			return fmt.Errorf("config: source %q has unknown kind %q", s.Name, s.Kind)
		}
	}
	return nil
}

// SMTPConfigured reports whether alert mails can go out over SMTP.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.Host != ""
}

// MinioConfigured reports whether case images can be stored.
func (c *Config) MinioConfigured() bool {
	return c.Minio.Endpoint != "" && c.Minio.BucketName != ""
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
