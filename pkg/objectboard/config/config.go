package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heyama/objectboard/pkg/objectboard"
	repomemory "github.com/heyama/objectboard/pkg/objectboard/repo/memory"
	repopg "github.com/heyama/objectboard/pkg/objectboard/repo/postgres"
	fsstorage "github.com/heyama/objectboard/pkg/objectboard/storage/fs"
	memorystorage "github.com/heyama/objectboard/pkg/objectboard/storage/memory"
	s3storage "github.com/heyama/objectboard/pkg/objectboard/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		Storage: StorageConfig{
			Type: "memory",
		},
	}
}

// ServerConfig represents server configuration for the objectboard service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Blob storage configuration
	Storage StorageConfig
}

// StorageConfig represents configuration for the blob storage backend
type StorageConfig struct {
	Type string // "memory", "fs", "s3"

	// fs
	BaseDir string

	// s3
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	CreateBucket    bool
	PublicRead      bool

	// PublicBaseURL is the prefix under which stored blobs resolve. Required
	// for fs, optional for memory, defaults to the endpoint for s3.
	PublicBaseURL string
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}
	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.Storage.Type {
	case "memory":
	case "fs":
		if c.Storage.BaseDir == "" {
			return errors.New("storage base_dir is required for fs storage")
		}
		if c.Storage.PublicBaseURL == "" {
			return errors.New("storage public_url is required for fs storage")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			return errors.New("storage bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}

// BuildService creates a Service from the server configuration. The returned
// Notifier is wired in as the service's event sink.
func (c *ServerConfig) BuildService() (objectboard.Service, *objectboard.Notifier, error) {
	repo, err := c.buildRepository()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.buildStorageBackend()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	notifier := objectboard.NewNotifier()

	svc, err := objectboard.New(
		objectboard.WithRepository(repo),
		objectboard.WithBlobStore(store),
		objectboard.WithEventSink(notifier),
	)
	if err != nil {
		return nil, nil, err
	}

	return svc, notifier, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (objectboard.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return repomemory.New(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildStorageBackend creates a BlobStore based on the configuration
func (c *ServerConfig) buildStorageBackend() (objectboard.BlobStore, error) {
	s := c.Storage
	switch s.Type {
	case "memory":
		return memorystorage.New(s.PublicBaseURL), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir:   s.BaseDir,
			URLPrefix: s.PublicBaseURL,
		})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 s.Region,
			Bucket:                 s.Bucket,
			AccessKeyID:            s.AccessKeyID,
			SecretAccessKey:        s.SecretAccessKey,
			Endpoint:               s.Endpoint,
			UsePathStyle:           s.UsePathStyle,
			PublicBaseURL:          s.PublicBaseURL,
			CreateBucketIfNotExist: s.CreateBucket,
			SetPublicReadPolicy:    s.PublicRead,
		})

	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", s.Type)
	}
}

// PingPostgres verifies connectivity to Postgres before the server starts
// taking requests.
func PingPostgres(databaseURL string) error {
	if databaseURL == "" {
		return errors.New("database_url is required")
	}
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
