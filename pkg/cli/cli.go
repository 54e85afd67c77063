package cli

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/urfave/cli/v3"
)

// Version of the urbop command
const Version = "0.1.0"

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	var logCfg logConfig

	cmd := &cli.Command{
		Name:    "urbop",
		Usage:   "Odoo client and MCDA parameter tooling",
		Version: Version,
		Flags:   logFlags(&logCfg),
		Commands: []*cli.Command{
			odooCommand(&logCfg),
			paramsCommand(&logCfg),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode output")
	}
	return nil
}

// parseIDs parses a comma separated list such as "1,2,3"
func parseIDs(s string) ([]model.RecordID, error) {
	var ids []model.RecordID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid record id", goerr.V("id", part))
		}
		ids = append(ids, model.RecordID(id))
	}
	if len(ids) == 0 {
		return nil, goerr.New("at least one record id is required")
	}
	return ids, nil
}

func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
