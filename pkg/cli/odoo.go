package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/odoo"
	"github.com/m-mizutani/urbop/pkg/service/mcp"
	"github.com/m-mizutani/urbop/pkg/utils/jsonval"
	"github.com/urfave/cli/v3"
)

func odooCommand(logCfg *logConfig) *cli.Command {
	return &cli.Command{
		Name:  "odoo",
		Usage: "Operate on records of an Odoo server",
		Commands: []*cli.Command{
			odooConnectCommand(logCfg),
			odooSearchCommand(logCfg),
			odooCreateCommand(logCfg),
			odooWriteCommand(logCfg),
			odooUnlinkCommand(logCfg),
			odooCallCommand(logCfg),
			odooServeCommand(logCfg),
		},
	}
}

func modelFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "model",
		Aliases:     []string{"m"},
		Usage:       "Odoo model name, e.g. res.partner",
		Required:    true,
		Destination: dst,
	}
}

func odooConnectCommand(logCfg *logConfig) *cli.Command {
	var cfg odooConfig

	return &cli.Command{
		Name:  "connect",
		Usage: "Authenticate and print the session identity",
		Flags: odooFlags(&cfg),
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			out := map[string]any{"uid": client.UserID()}
			if v := client.Version(); v != nil {
				out["server_version"] = v.ServerVersion
				out["protocol_version"] = v.ProtocolVersion
			}
			return printJSON(c.Root().Writer, out)
		}),
	}
}

func odooSearchCommand(logCfg *logConfig) *cli.Command {
	var (
		cfg       odooConfig
		modelName string
		domain    string
		fields    string
		limit     int64
		offset    int64
		order     string
	)

	flags := []cli.Flag{
		modelFlag(&modelName),
		&cli.StringFlag{
			Name:        "domain",
			Usage:       `Search domain as JSON, e.g. [["is_company","=",true]]`,
			Destination: &domain,
		},
		&cli.StringFlag{
			Name:        "fields",
			Aliases:     []string{"f"},
			Usage:       "Comma separated field names; all fields when omitted",
			Destination: &fields,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of records",
			Destination: &limit,
		},
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Number of records to skip",
			Destination: &offset,
		},
		&cli.StringFlag{
			Name:        "order",
			Usage:       "Sort order, e.g. \"name ASC\"",
			Destination: &order,
		},
	}
	flags = append(flags, odooFlags(&cfg)...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search and read records",
		Flags: flags,
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			parsedDomain, err := jsonval.ParseSlice(domain)
			if err != nil {
				return err
			}

			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			records, err := client.SearchRead(ctx, modelName, odoo.SearchReadInput{
				Domain: model.Domain(parsedDomain),
				Fields: splitFields(fields),
				Limit:  int(limit),
				Offset: int(offset),
				Order:  order,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to search records")
			}

			return printJSON(c.Root().Writer, records)
		}),
	}
}

func odooCreateCommand(logCfg *logConfig) *cli.Command {
	var (
		cfg       odooConfig
		modelName string
		values    string
	)

	flags := []cli.Flag{
		modelFlag(&modelName),
		&cli.StringFlag{
			Name:        "values",
			Usage:       "Field values as a JSON object",
			Required:    true,
			Destination: &values,
		},
	}
	flags = append(flags, odooFlags(&cfg)...)

	return &cli.Command{
		Name:  "create",
		Usage: "Create a record and print its ID (0 on failure)",
		Flags: flags,
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			parsed, err := jsonval.ParseMap(values)
			if err != nil {
				return err
			}

			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			id, err := client.Create(ctx, modelName, model.Record(parsed))
			if err != nil {
				return goerr.Wrap(err, "failed to create record")
			}

			return printJSON(c.Root().Writer, map[string]any{"id": id})
		}),
	}
}

func odooWriteCommand(logCfg *logConfig) *cli.Command {
	var (
		cfg       odooConfig
		modelName string
		ids       string
		values    string
	)

	flags := []cli.Flag{
		modelFlag(&modelName),
		&cli.StringFlag{
			Name:        "ids",
			Usage:       "Comma separated record IDs, e.g. 1,2",
			Required:    true,
			Destination: &ids,
		},
		&cli.StringFlag{
			Name:        "values",
			Usage:       "Field values as a JSON object",
			Required:    true,
			Destination: &values,
		},
	}
	flags = append(flags, odooFlags(&cfg)...)

	return &cli.Command{
		Name:  "write",
		Usage: "Update records",
		Flags: flags,
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			recordIDs, err := parseIDs(ids)
			if err != nil {
				return err
			}
			parsed, err := jsonval.ParseMap(values)
			if err != nil {
				return err
			}

			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			ok, err := client.Write(ctx, modelName, recordIDs, model.Record(parsed))
			if err != nil {
				return goerr.Wrap(err, "failed to update records")
			}

			return printJSON(c.Root().Writer, map[string]any{"success": ok})
		}),
	}
}

func odooUnlinkCommand(logCfg *logConfig) *cli.Command {
	var (
		cfg       odooConfig
		modelName string
		ids       string
	)

	flags := []cli.Flag{
		modelFlag(&modelName),
		&cli.StringFlag{
			Name:        "ids",
			Usage:       "Comma separated record IDs, e.g. 1,2",
			Required:    true,
			Destination: &ids,
		},
	}
	flags = append(flags, odooFlags(&cfg)...)

	return &cli.Command{
		Name:  "unlink",
		Usage: "Delete records",
		Flags: flags,
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			recordIDs, err := parseIDs(ids)
			if err != nil {
				return err
			}

			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			ok, err := client.Unlink(ctx, modelName, recordIDs)
			if err != nil {
				return goerr.Wrap(err, "failed to delete records")
			}

			return printJSON(c.Root().Writer, map[string]any{"success": ok})
		}),
	}
}

func odooCallCommand(logCfg *logConfig) *cli.Command {
	var (
		cfg       odooConfig
		modelName string
		method    string
		args      string
		kwargs    string
	)

	flags := []cli.Flag{
		modelFlag(&modelName),
		&cli.StringFlag{
			Name:        "method",
			Usage:       "Model method to invoke",
			Required:    true,
			Destination: &method,
		},
		&cli.StringFlag{
			Name:        "args",
			Usage:       "Positional arguments as a JSON array",
			Destination: &args,
		},
		&cli.StringFlag{
			Name:        "kwargs",
			Usage:       "Keyword arguments as a JSON object",
			Destination: &kwargs,
		},
	}
	flags = append(flags, odooFlags(&cfg)...)

	return &cli.Command{
		Name:  "call",
		Usage: "Invoke an arbitrary model method",
		Flags: flags,
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			parsedArgs, err := jsonval.ParseSlice(args)
			if err != nil {
				return err
			}
			parsedKwargs, err := jsonval.ParseMap(kwargs)
			if err != nil {
				return err
			}

			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			reply, err := client.Call(ctx, modelName, method, parsedArgs, parsedKwargs)
			if err != nil {
				return goerr.Wrap(err, "failed to call method", goerr.V("method", method))
			}

			return printJSON(c.Root().Writer, map[string]any{"result": reply})
		}),
	}
}

func odooServeCommand(logCfg *logConfig) *cli.Command {
	var cfg odooConfig

	return &cli.Command{
		Name:  "serve",
		Usage: "Expose the Odoo client as MCP tools over stdio",
		Flags: odooFlags(&cfg),
		Action: withLogger(logCfg, func(ctx context.Context, c *cli.Command) error {
			client, err := cfg.newOdooClient(ctx)
			if err != nil {
				return err
			}

			return mcp.Serve(ctx, mcp.NewServer(client, Version))
		}),
	}
}
