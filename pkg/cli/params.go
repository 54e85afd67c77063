package cli

import (
	"context"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/adapter"
	"github.com/m-mizutani/urbop/pkg/usecase/params"
	"github.com/urfave/cli/v3"
)

func paramsCommand(logCfg *logConfig) *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "MCDA parameter sheet tooling",
		Commands: []*cli.Command{
			paramsExtractCommand(logCfg),
		},
	}
}

func paramsExtractCommand(logCfg *logConfig) *cli.Command {
	var (
		cloud       cloudConfig
		input       string
		worksheet   string
		output      string
		format      string
		sheetID     string
		sheetRange  string
		credentials string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to the xlsx workbook",
			Value:       params.DefaultInputPath,
			Sources:     cli.EnvVars("URBOP_PARAMS_INPUT"),
			Destination: &input,
		},
		&cli.StringFlag{
			Name:        "worksheet",
			Usage:       "Worksheet name; the first worksheet when omitted",
			Destination: &worksheet,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Path of the dump file, truncated if it exists",
			Value:       params.DefaultOutputPath,
			Sources:     cli.EnvVars("URBOP_PARAMS_OUTPUT"),
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "Dump format (text, yaml, json)",
			Value:       string(params.FormatText),
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "sheet-id",
			Usage:       "Google Sheets spreadsheet ID, read instead of --input",
			Sources:     cli.EnvVars("URBOP_SHEET_ID"),
			Destination: &sheetID,
		},
		&cli.StringFlag{
			Name:        "sheet-range",
			Usage:       "A1 range of the Google Sheets table",
			Value:       "A:E",
			Destination: &sheetRange,
		},
		&cli.StringFlag{
			Name:        "credentials",
			Usage:       "Service account credentials file for Google Sheets",
			Sources:     cli.EnvVars("GOOGLE_APPLICATION_CREDENTIALS"),
			Destination: &credentials,
		},
	}
	flags = append(flags, cloudFlags(&cloud)...)

	return &cli.Command{
		Name:  "extract",
		Usage: "Extract MCDA parameters from a spreadsheet into a dump file",
		Flags: flags,
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			dumpFormat := params.Format(format)
			if err := dumpFormat.Validate(); err != nil {
				return err
			}

			var src adapter.SheetSource
			if sheetID != "" {
				s, err := adapter.NewGoogleSheetSource(ctx, sheetID, sheetRange, credentials)
				if err != nil {
					return err
				}
				src = s
			} else {
				var opts []adapter.XLSXOption
				if worksheet != "" {
					opts = append(opts, adapter.WithWorksheet(worksheet))
				}
				src = adapter.NewXLSXSource(input, opts...)
			}

			var opts []params.Option
			storage, err := cloud.newStorage(ctx)
			if err != nil {
				return err
			}
			if storage != nil {
				opts = append(opts, params.WithStorage(storage))
			}

			repo, err := cloud.newRepository(ctx)
			if err != nil {
				return err
			}
			if repo != nil {
				defer func() { _ = repo.Close() }()
				opts = append(opts, params.WithRepository(repo))
			}

			uc := params.New(opts...)

			extracted, err := uc.Extract(ctx, src)
			if err != nil {
				return goerr.Wrap(err, "failed to extract parameters")
			}

			if err := uc.PersistAs(ctx, extracted, output, dumpFormat); err != nil {
				return err
			}

			object := cloud.object
			if object == "" {
				object = filepath.Base(output)
			}
			return uc.Publish(ctx, extracted, output, object, dumpFormat)
		}),
	}
}
