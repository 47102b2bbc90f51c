package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mcdev12/puckdraft/go/internal/draft/outbox"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	NATS struct {
		URL           string `yaml:"url"`
		Stream        string `yaml:"stream"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
	Outbox struct {
		FallbackIntervalSec int   `yaml:"fallback_interval_sec"`
		BatchSize           int32 `yaml:"batch_size"`
		MaxRetries          int   `yaml:"max_retries"`
	} `yaml:"outbox"`
}

func loadConfig(path string) (*Config, error) {
	var config Config
	config.Server.Port = getEnv("PORT", "8080")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.Server.Port == "" {
		config.Server.Port = getEnv("PORT", "8080")
	}
	return &config, nil
}

func (c *Config) jetStreamConfig() outbox.JetStreamConfig {
	js := outbox.DefaultJetStreamConfig()
	if c.NATS.URL != "" {
		js.URL = c.NATS.URL
	}
	if c.NATS.Stream != "" {
		js.StreamName = c.NATS.Stream
	}
	if c.NATS.SubjectPrefix != "" {
		js.SubjectPrefix = c.NATS.SubjectPrefix
	}
	return js
}

func (c *Config) listenerConfig(dsn string) outbox.ListenerConfig {
	lc := outbox.DefaultListenerConfig()
	lc.DatabaseURL = dsn
	if c.Outbox.FallbackIntervalSec > 0 {
		lc.FallbackInterval = time.Duration(c.Outbox.FallbackIntervalSec) * time.Second
	}
	if c.Outbox.BatchSize > 0 {
		lc.BatchSize = c.Outbox.BatchSize
	}
	if c.Outbox.MaxRetries > 0 {
		lc.MaxRetries = c.Outbox.MaxRetries
	}
	return lc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
