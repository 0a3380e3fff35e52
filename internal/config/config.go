package config

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	once     sync.Once
	instance *Config
)

// CatalogConfig настройки подключения к каталожному API
type CatalogConfig struct {
	URL               string        `yaml:"url"`
	Timeout           time.Duration `yaml:"timeout"`
	RatePerSec        float64       `yaml:"rate_per_sec"`
	Burst             int           `yaml:"burst"`
	ValidateResponses bool          `yaml:"validate_responses"`
	Debug             bool          `yaml:"debug"`
}

// BrowserConfig настройки интерактивной оболочки
type BrowserConfig struct {
	PageSize    int    `yaml:"page_size"`
	HistoryDB   string `yaml:"history_db"`
	HistoryFile string `yaml:"history_file"`
}

// MetricsConfig настройки для экспортера метрик (0 = выключено)
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// Config корень дерева конфигурации, строго соответствующий kniga.yaml
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Browser BrowserConfig `yaml:"browser"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Get возвращает инициализированный объект конфигурации (Singleton)
func Get() *Config {
	once.Do(func() {
		path := os.Getenv("KNIGA_CONFIG")
		if path == "" {
			path = "kniga.yaml"
		}

		f, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("[CONFIG ERROR] Could not read %s: %v", path, err)
		}

		instance = &Config{}
		if err := yaml.Unmarshal(f, instance); err != nil {
			log.Fatalf("[CONFIG ERROR] Failed to parse YAML: %v", err)
		}
		instance.applyDefaults()
	})
	return instance
}

func (c *Config) applyDefaults() {
	if c.Catalog.URL == "" {
		c.Catalog.URL = "http://localhost:8080"
	}
	if c.Catalog.Timeout == 0 {
		c.Catalog.Timeout = 5 * time.Second
	}
	if c.Catalog.RatePerSec == 0 {
		c.Catalog.RatePerSec = 10
	}
	if c.Catalog.Burst == 0 {
		c.Catalog.Burst = 5
	}
	if c.Browser.PageSize == 0 {
		c.Browser.PageSize = 12
	}
	if c.Browser.HistoryDB == "" {
		c.Browser.HistoryDB = ".kniga_history.db"
	}
	if c.Browser.HistoryFile == "" {
		c.Browser.HistoryFile = ".kniga_history"
	}
}

// MetricsAddr возвращает строку host:port для экспортера метрик
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.Metrics.Port)
}
