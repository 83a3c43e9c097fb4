// Package database provides MongoDB connection management.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect creates a Mongo client, validates it with a ping, and returns
// the handle for the named database. It retries up to 5 times to
// accommodate containers starting up.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetMaxPoolSize(20)

	var (
		client *mongo.Client
		err    error
	)
	for attempt := 1; attempt <= 5; attempt++ {
		client, err = mongo.Connect(ctx, opts)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			pingErr := client.Ping(pingCtx, readpref.Primary())
			cancel()
			if pingErr == nil {
				return client, client.Database(dbName), nil
			}
			err = pingErr
			_ = client.Disconnect(ctx)
		}
		time.Sleep(2 * time.Second)
	}
	return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
}
