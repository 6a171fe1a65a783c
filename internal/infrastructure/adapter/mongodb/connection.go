package mongodb

import (
	"context"
	"fmt"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connection holds the live document store client and its configuration
type Connection struct {
	Client *mongo.Client
	Config *Config
}

// NewConnection connects to the document store, applies the pool settings
// and verifies the server is reachable
func NewConnection(ctx context.Context, config *Config, logger coreport.Logger) (*Connection, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mongo configuration: %w", err)
	}

	clientOpts := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(config.MaxPoolSize).
		SetMinPoolSize(config.MinPoolSize).
		SetMaxConnIdleTime(config.MaxConnIdleTime).
		SetConnectTimeout(config.ConnectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.ConnectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("connected to document store", map[string]any{
		"database": config.Database,
	})

	return &Connection{Client: client, Config: config}, nil
}

// Close disconnects the client
func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
