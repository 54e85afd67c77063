package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/adapter"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/odoo"
	"github.com/m-mizutani/urbop/pkg/repository"
	"github.com/m-mizutani/urbop/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// logConfig holds logging configuration shared by all commands
type logConfig struct {
	level  string
	output string
}

func logFlags(cfg *logConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("URBOP_LOG_LEVEL"),
			Destination: &cfg.level,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log destination: stderr, stdout or a file path",
			Value:       "stderr",
			Sources:     cli.EnvVars("URBOP_LOG_OUTPUT"),
			Destination: &cfg.output,
		},
	}
}

// withLogger wraps action so that it runs with the configured logger in ctx
func withLogger(cfg *logConfig, action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		w, closer, err := logging.Open(cfg.output)
		if err != nil {
			return err
		}
		defer func() { _ = closer() }()

		logger := logging.New(cfg.level, w)
		prev := logging.Default()
		logging.SetDefault(logger)
		defer logging.SetDefault(prev)

		return action(logging.With(ctx, logger), c)
	}
}

// odooConfig holds connection settings of the Odoo server
type odooConfig struct {
	url      string
	database string
	username string
	apiKey   string
	password string
}

func odooFlags(cfg *odooConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "odoo-url",
			Usage:       "Base URL of the Odoo server",
			Sources:     cli.EnvVars("ODOO_URL"),
			Destination: &cfg.url,
		},
		&cli.StringFlag{
			Name:        "odoo-db",
			Usage:       "Odoo database name",
			Sources:     cli.EnvVars("ODOO_DB"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "odoo-username",
			Usage:       "Odoo login",
			Sources:     cli.EnvVars("ODOO_USERNAME"),
			Destination: &cfg.username,
		},
		&cli.StringFlag{
			Name:        "odoo-api-key",
			Usage:       "Odoo API key (preferred over password)",
			Sources:     cli.EnvVars("ODOO_API_KEY"),
			Destination: &cfg.apiKey,
		},
		&cli.StringFlag{
			Name:        "odoo-password",
			Usage:       "Odoo password, used when no API key is given",
			Sources:     cli.EnvVars("ODOO_PASSWORD"),
			Destination: &cfg.password,
		},
	}
}

func (cfg *odooConfig) credentials() model.Credentials {
	return model.Credentials{
		URL:      cfg.url,
		Database: cfg.database,
		Username: cfg.username,
		APIKey:   cfg.apiKey,
		Password: cfg.password,
	}
}

// newOdooClient creates a client and establishes the session
func (cfg *odooConfig) newOdooClient(ctx context.Context) (*odoo.Client, error) {
	client, err := odoo.New(cfg.credentials())
	if err != nil {
		return nil, err
	}

	if _, ok := client.Connect(ctx); !ok {
		return nil, goerr.New("failed to connect to odoo", goerr.V("url", cfg.url), goerr.V("db", cfg.database))
	}
	return client, nil
}

// cloudConfig holds optional publishing destinations of the parameter dump
type cloudConfig struct {
	bucket   string
	object   string
	project  string
	database string
}

func cloudFlags(cfg *cloudConfig) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket to upload the dump to",
			Sources:     cli.EnvVars("URBOP_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "object",
			Usage:       "Object name of the uploaded dump; defaults to the output file name",
			Sources:     cli.EnvVars("URBOP_OBJECT"),
			Destination: &cfg.object,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for Firestore",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
	}
}

// newStorage returns nil when no bucket is configured
func (cfg *cloudConfig) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, nil
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage", goerr.V("bucket", cfg.bucket))
	}
	return storage, nil
}

// newRepository returns nil when no project is configured
func (cfg *cloudConfig) newRepository(ctx context.Context) (*repository.Firestore, error) {
	if cfg.project == "" {
		return nil, nil
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}
