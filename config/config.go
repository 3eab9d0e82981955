package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Staging StagingConfig `yaml:"staging"`
	Engine  EngineConfig  `yaml:"engine"`
	Mongo   MongoConfig   `yaml:"mongo"`
	Archive ArchiveConfig `yaml:"archive"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type StagingConfig struct {
	Dir               string   `yaml:"dir"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxUploadBytes    int64    `yaml:"max_upload_bytes"`
}

type EngineConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Bucket     string `yaml:"bucket"`
	UseSSL     bool   `yaml:"use_ssl"`
	ExpireDays int    `yaml:"expire_days"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Staging.Dir == "" {
		cfg.Staging.Dir = "/usr/src/app/uploads"
	}
	if len(cfg.Staging.AllowedExtensions) == 0 {
		cfg.Staging.AllowedExtensions = []string{".rs"}
	}
	if cfg.Staging.MaxUploadBytes == 0 {
		cfg.Staging.MaxUploadBytes = 8 << 20 // 8 MiB
	}
	if cfg.Engine.URL == "" {
		cfg.Engine.URL = "http://rust-audit-service:8080"
	}
	if cfg.Engine.TimeoutSeconds == 0 {
		cfg.Engine.TimeoutSeconds = 60
	}
	if cfg.Engine.MaxRetries == 0 {
		cfg.Engine.MaxRetries = 2
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://mongo:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "auditSolana"
	}
	if cfg.Mongo.Collection == "" {
		cfg.Mongo.Collection = "auditReports"
	}
	if cfg.Archive.ExpireDays == 0 {
		cfg.Archive.ExpireDays = 7
	}

	return &cfg, nil
}
