package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	vc "github.com/draftkit/versioned-content/pkg/versionedcontent"
	archives3 "github.com/draftkit/versioned-content/pkg/versionedcontent/archive/s3"
	"github.com/draftkit/versioned-content/pkg/versionedcontent/repo/memory"
	repopg "github.com/draftkit/versioned-content/pkg/versionedcontent/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
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
		Port:                 "8080",
		Environment:          "development",
		DatabaseType:         "memory",
		PurgeHistoryOnDelete: true,
		EnableEventLogging:   true,
	}
}

// ServerConfig represents server configuration for the versioned-content service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Authentication
	JWTSecret string

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use, empty leaves search_path alone

	// Archive configuration; an empty bucket disables exports
	ArchiveBucket   string
	ArchiveRegion   string
	ArchiveEndpoint string // Optional custom endpoint for S3-compatible services

	// Server options
	PurgeHistoryOnDelete bool
	EnableEventLogging   bool
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

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (vc.Service, error) {
	var options []vc.Option

	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, vc.WithRepository(repo))
	options = append(options, vc.WithHistoryPurge(c.PurgeHistoryOnDelete))

	if c.EnableEventLogging {
		options = append(options, vc.WithEventSink(vc.NewSlogEventSink(slog.Default())))
	}

	if c.ArchiveBucket != "" {
		archiver, err := archives3.New(archives3.Config{
			Bucket:       c.ArchiveBucket,
			Region:       c.ArchiveRegion,
			Endpoint:     c.ArchiveEndpoint,
			UsePathStyle: c.ArchiveEndpoint != "",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build archiver: %w", err)
		}
		options = append(options, vc.WithArchiver(archiver))
	}

	return vc.New(options...)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (vc.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		cfg, err := pgxpool.ParseConfig(c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
		}
		// Optionally set search_path for the connection
		schema := c.DBSchema
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			if schema == "" {
				return nil
			}
			_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
			return err
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}
