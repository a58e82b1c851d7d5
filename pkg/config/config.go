// Package config loads the dashboard and activity server configuration from a JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/mouradhm/migrations-dashboard/pkg/logger"
	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

var (
	errMissingEndpoint   = errors.New("endpoint is required")
	errInvalidEndpoint   = errors.New("endpoint must be an absolute http(s) URL")
	errInvalidInterval   = errors.New("poll_interval must be positive")
	errMissingMongoURI   = errors.New("mongo_uri is required")
	errMissingDatabase   = errors.New("database is required")
	errMissingListenAddr = errors.New("listen_addr is required")
)

const (
	defaultEndpoint       = "http://localhost:8080/api/activities"
	defaultRequestTimeout = 30 * time.Second
	defaultListenAddr     = ":8080"
	defaultCollection     = "activities"
	defaultListLimit      = 100
)

// DashboardConfig configures cmd/dashboard
type DashboardConfig struct {
	Endpoint       string          `json:"endpoint"`
	PollInterval   models.Duration `json:"poll_interval"`
	RequestTimeout models.Duration `json:"request_timeout"`
	Timezone       string          `json:"timezone"`
	Headless       bool            `json:"headless"`
	Logging        *logger.Config  `json:"logging"`
}

// ServerConfig configures cmd/activityserver
type ServerConfig struct {
	ListenAddr string         `json:"listen_addr"`
	MongoURI   string         `json:"mongo_uri"`
	Database   string         `json:"database"`
	Collection string         `json:"collection"`
	ListLimit  int64          `json:"list_limit"`
	Logging    *logger.Config `json:"logging"`
}

// DefaultDashboardConfig returns the dashboard defaults: local endpoint, 15s polling
func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Endpoint:       defaultEndpoint,
		PollInterval:   models.Duration(15 * time.Second),
		RequestTimeout: models.Duration(defaultRequestTimeout),
		Logging:        logger.DefaultConfig(),
	}
}

// DefaultServerConfig returns the activity server defaults
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ListenAddr: defaultListenAddr,
		Collection: defaultCollection,
		ListLimit:  defaultListLimit,
		Logging:    logger.DefaultConfig(),
	}
}

// LoadDashboardConfig reads defaults, then path (if set), then DASHBOARD_* environment overrides
func LoadDashboardConfig(path string) (*DashboardConfig, error) {
	cfg := DefaultDashboardConfig()

	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadServerConfig reads defaults, then path (if set), then ACTIVITYSERVER_* environment overrides
func LoadServerConfig(path string) (*ServerConfig, error) {
	cfg := DefaultServerConfig()

	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile unmarshals a JSON file over dst; an empty path is a no-op
func loadFile(path string, dst interface{}) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from '%s': %w", path, err)
	}

	return nil
}

func (c *DashboardConfig) applyEnv() error {
	if v := os.Getenv("DASHBOARD_ENDPOINT"); v != "" {
		c.Endpoint = v
	}

	if v := os.Getenv("DASHBOARD_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DASHBOARD_POLL_INTERVAL: %w", err)
		}

		c.PollInterval = models.Duration(d)
	}

	if v := os.Getenv("DASHBOARD_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DASHBOARD_REQUEST_TIMEOUT: %w", err)
		}

		c.RequestTimeout = models.Duration(d)
	}

	if v := os.Getenv("DASHBOARD_TIMEZONE"); v != "" {
		c.Timezone = v
	}

	if v := os.Getenv("DASHBOARD_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DASHBOARD_HEADLESS: %w", err)
		}

		c.Headless = b
	}

	return nil
}

// Validate checks the endpoint, interval and timezone
func (c *DashboardConfig) Validate() error {
	if c.Endpoint == "" {
		return errMissingEndpoint
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidEndpoint, c.Endpoint)
	}

	if c.PollInterval <= 0 {
		return errInvalidInterval
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	return nil
}

// Location returns the time zone dates are rendered in; an empty Timezone means local time
func (c *DashboardConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

func (c *ServerConfig) applyEnv() error {
	if v := os.Getenv("ACTIVITYSERVER_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}

	if v := os.Getenv("ACTIVITYSERVER_MONGO_URI"); v != "" {
		c.MongoURI = v
	}

	if v := os.Getenv("ACTIVITYSERVER_DATABASE"); v != "" {
		c.Database = v
	}

	if v := os.Getenv("ACTIVITYSERVER_COLLECTION"); v != "" {
		c.Collection = v
	}

	if v := os.Getenv("ACTIVITYSERVER_LIST_LIMIT"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ACTIVITYSERVER_LIST_LIMIT: %w", err)
		}

		c.ListLimit = n
	}

	return nil
}

// Validate checks the required MongoDB settings
func (c *ServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return errMissingListenAddr
	}

	if c.MongoURI == "" {
		return errMissingMongoURI
	}

	if c.Database == "" {
		return errMissingDatabase
	}

	if c.Collection == "" {
		c.Collection = defaultCollection
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	return nil
}
