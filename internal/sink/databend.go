package sink

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Scoopit/mysql2databend/pkg/databend"
)

// DefaultMaxExecuteDuration bounds how long the server may take to answer
// one statement.
const DefaultMaxExecuteDuration = 120 * time.Second

// DatabendConfig configures the Databend HTTP sink.
type DatabendConfig struct {
	QueryURI           string
	User               string
	Password           string
	DefaultDatabase    string
	ForceDatabase      string
	MaxExecuteDuration time.Duration
}

type executor interface {
	Execute(ctx context.Context, sql, database string, wait time.Duration) (*databend.QueryResponse, error)
}

// Databend submits every statement to the Databend HTTP query API.
type Databend struct {
	client   executor
	config   DatabendConfig
	database string
}

// NewDatabend creates a sink for the query service at config.QueryURI.
func NewDatabend(config DatabendConfig) (*Databend, error) {
	if config.MaxExecuteDuration <= 0 {
		config.MaxExecuteDuration = DefaultMaxExecuteDuration
	}
	client, err := databend.NewClient(config.QueryURI, config.User, config.Password,
		databend.WithTimeout(config.MaxExecuteDuration+time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to create databend client: %w", err)
	}
	slog.Info("Using Databend query endpoint",
		"endpoint", client.Endpoint(),
		"user", config.User,
		"default_database", config.DefaultDatabase,
		"force_database", config.ForceDatabase)
	return newDatabend(client, config), nil
}

func newDatabend(client executor, config DatabendConfig) *Databend {
	if config.MaxExecuteDuration <= 0 {
		config.MaxExecuteDuration = DefaultMaxExecuteDuration
	}
	return &Databend{
		client:   client,
		config:   config,
		database: config.DefaultDatabase,
	}
}

// UseDatabase makes name the session database of the following statements
// unless a database is forced.
func (d *Databend) UseDatabase(ctx context.Context, name string) error {
	d.database = name
	return nil
}

// SessionDatabase is the database sent with the next statement: the forced
// database, else the last USE, else the default database.
func (d *Databend) SessionDatabase() string {
	if d.config.ForceDatabase != "" {
		return d.config.ForceDatabase
	}
	return d.database
}

func (d *Databend) Write(ctx context.Context, stmt []byte) (int, error) {
	sql := strings.TrimSpace(string(stmt))
	if sql == "" {
		return len(stmt), nil
	}

	res, err := d.client.Execute(ctx, sql, d.SessionDatabase(), d.config.MaxExecuteDuration)
	if err != nil {
		return 0, err
	}

	switch res.State {
	case databend.StateRunning:
		slog.Warn("Query still running",
			"query_id", res.ID,
			"next_uri", res.NextURI,
			"max_execute_duration", d.config.MaxExecuteDuration)
	case databend.StateSucceeded:
		slog.Info("Statement executed",
			"query_id", res.ID,
			"database", d.SessionDatabase(),
			"rows", res.Stats.WriteProgress.Rows,
			"bytes", humanize.Bytes(res.Stats.WriteProgress.Bytes),
			"running_time", time.Duration(res.Stats.RunningTimeMS*float64(time.Millisecond)))
	}
	return len(stmt), nil
}

func (d *Databend) Flush(ctx context.Context) error {
	return nil
}

func (d *Databend) Close() error {
	return nil
}
