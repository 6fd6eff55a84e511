package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"PublicationsImporter/internal/config"
	"PublicationsImporter/internal/domain"
	"PublicationsImporter/internal/logging"
)

const defaultListLimit = 50

// NewCLI builds the publicationsimporter command tree.
func NewCLI() *cli.App {
	return &cli.App{
		Name:  "publicationsimporter",
		Usage: "import publications, extract their findings and summarize them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"PUBLICATIONS_IMPORTER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "run one import batch from a CSV or TSV file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "concurrency", Usage: "records processed at once (overrides config)"},
				},
				Action: importAction,
			},
			{
				Name:      "watch",
				Usage:     "re-run the import of a file on the configured cron schedule",
				ArgsUsage: "<file>",
				Action:    watchAction,
			},
			{
				Name:  "list",
				Usage: "print the most recent publications as YAML",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: defaultListLimit, Usage: "maximum number of publications"},
				},
				Action: listAction,
			},
			{
				Name:      "show",
				Usage:     "print one publication as YAML",
				ArgsUsage: "<id>",
				Action:    showAction,
			},
		},
	}
}

func importAction(c *cli.Context) error {
	path, err := requireArg(c, "file")
	if err != nil {
		return err
	}

	return withApplication(c, func(ctx context.Context, application *Application) error {
		report, err := application.Import(ctx, path)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(c.App.Writer, formatCounts(report))
		return err
	})
}

func watchAction(c *cli.Context) error {
	path, err := requireArg(c, "file")
	if err != nil {
		return err
	}

	return withApplication(c, func(ctx context.Context, application *Application) error {
		return application.Watch(ctx, path)
	})
}

func listAction(c *cli.Context) error {
	return withApplication(c, func(ctx context.Context, application *Application) error {
		docs, err := application.Store().ListRecent(ctx, c.Int("limit"))
		if err != nil {
			return fmt.Errorf("list publications: %w", err)
		}
		if docs == nil {
			docs = []domain.StoredDocument{}
		}
		return writeYAML(c.App.Writer, docs)
	})
}

func showAction(c *cli.Context) error {
	id, err := requireArg(c, "id")
	if err != nil {
		return err
	}

	return withApplication(c, func(ctx context.Context, application *Application) error {
		doc, err := application.Store().Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("publication %s not found", id)
		}
		if err != nil {
			return fmt.Errorf("show publication: %w", err)
		}
		return writeYAML(c.App.Writer, doc)
	})
}

func withApplication(c *cli.Context, fn func(context.Context, *Application) error) error {
	cfg := config.Load(c.String("config"))
	if c.IsSet("concurrency") {
		cfg.Importer.Concurrency = c.Int("concurrency")
	}
	logger := logging.NewWithWriter(c.App.ErrWriter, cfg.Logging.Level)

	ctx := c.Context
	application, err := Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := application.Close(context.Background()); closeErr != nil {
			logger.Warn("close document store", "error", closeErr)
		}
	}()

	return fn(ctx, application)
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("%s expects exactly one <%s> argument", c.Command.Name, name)
	}
	return c.Args().First(), nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func formatCounts(report domain.BatchReport) string {
	counts := report.Counts()
	out := fmt.Sprintf("processed %d records:", report.Total())
	for _, status := range domain.Statuses {
		out += fmt.Sprintf(" %s=%d", status, counts[status])
	}
	return out
}
