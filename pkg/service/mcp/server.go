package mcp

import (
	"context"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/odoo"
	"github.com/m-mizutani/urbop/pkg/utils/jsonval"
	"github.com/m-mizutani/urbop/pkg/utils/logging"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// OdooClient is the subset of odoo.Client exposed as tools
type OdooClient interface {
	SearchRead(ctx context.Context, modelName string, input odoo.SearchReadInput) ([]model.Record, error)
	Create(ctx context.Context, modelName string, values model.Record) (model.RecordID, error)
	Write(ctx context.Context, modelName string, ids []model.RecordID, values model.Record) (bool, error)
	Unlink(ctx context.Context, modelName string, ids []model.RecordID) (bool, error)
	Call(ctx context.Context, modelName, method string, args []any, kwargs map[string]any) (any, error)
}

type searchReadParams struct {
	Model  string   `json:"model" jsonschema:"Odoo model name, e.g. res.partner"`
	Domain []any    `json:"domain,omitempty" jsonschema:"Search domain, e.g. [[\"is_company\", \"=\", true]]"`
	Fields []string `json:"fields,omitempty" jsonschema:"Fields to return; all fields when empty"`
	Limit  int      `json:"limit,omitempty" jsonschema:"Maximum number of records"`
	Offset int      `json:"offset,omitempty" jsonschema:"Number of records to skip"`
	Order  string   `json:"order,omitempty" jsonschema:"Sort order, e.g. name ASC"`
}

type createParams struct {
	Model  string         `json:"model" jsonschema:"Odoo model name"`
	Values map[string]any `json:"values" jsonschema:"Field values of the new record"`
}

type writeParams struct {
	Model  string         `json:"model" jsonschema:"Odoo model name"`
	IDs    []int64        `json:"ids" jsonschema:"IDs of the records to update"`
	Values map[string]any `json:"values" jsonschema:"Field values to update"`
}

type unlinkParams struct {
	Model string  `json:"model" jsonschema:"Odoo model name"`
	IDs   []int64 `json:"ids" jsonschema:"IDs of the records to delete"`
}

type callParams struct {
	Model  string         `json:"model" jsonschema:"Odoo model name"`
	Method string         `json:"method" jsonschema:"Model method to invoke"`
	Args   []any          `json:"args,omitempty" jsonschema:"Positional arguments"`
	Kwargs map[string]any `json:"kwargs,omitempty" jsonschema:"Keyword arguments"`
}

// NewServer creates an MCP server exposing client operations as tools
func NewServer(client OdooClient, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "urbop-odoo",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "odoo_search_read",
		Description: "Search and read records of an Odoo model",
	}, func(ctx context.Context, req *mcp.CallToolRequest, p searchReadParams) (*mcp.CallToolResult, any, error) {
		records, err := client.SearchRead(ctx, p.Model, odoo.SearchReadInput{
			Domain: model.Domain(jsonval.NormalizeSlice(p.Domain)),
			Fields: p.Fields,
			Limit:  p.Limit,
			Offset: p.Offset,
			Order:  p.Order,
		})
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(records)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "odoo_create",
		Description: "Create a record in an Odoo model and return its ID (0 on failure)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, p createParams) (*mcp.CallToolResult, any, error) {
		id, err := client.Create(ctx, p.Model, model.Record(jsonval.NormalizeMap(p.Values)))
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(map[string]any{"id": id})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "odoo_write",
		Description: "Update records of an Odoo model",
	}, func(ctx context.Context, req *mcp.CallToolRequest, p writeParams) (*mcp.CallToolResult, any, error) {
		ok, err := client.Write(ctx, p.Model, toRecordIDs(p.IDs), model.Record(jsonval.NormalizeMap(p.Values)))
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(map[string]any{"success": ok})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "odoo_unlink",
		Description: "Delete records of an Odoo model",
	}, func(ctx context.Context, req *mcp.CallToolRequest, p unlinkParams) (*mcp.CallToolResult, any, error) {
		ok, err := client.Unlink(ctx, p.Model, toRecordIDs(p.IDs))
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(map[string]any{"success": ok})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "odoo_call",
		Description: "Invoke an arbitrary method of an Odoo model",
	}, func(ctx context.Context, req *mcp.CallToolRequest, p callParams) (*mcp.CallToolResult, any, error) {
		if p.Method == "" {
			return nil, nil, goerr.New("method is required")
		}
		reply, err := client.Call(ctx, p.Model, p.Method, jsonval.NormalizeSlice(p.Args), jsonval.NormalizeMap(p.Kwargs))
		if err != nil {
			return nil, nil, err
		}
		return jsonResult(map[string]any{"result": reply})
	})

	return server
}

// Serve runs the server on stdio until the client disconnects
func Serve(ctx context.Context, server *mcp.Server) error {
	logging.From(ctx).Info("serving odoo tools over stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "mcp server stopped")
	}
	return nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal tool result")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func toRecordIDs(ids []int64) []model.RecordID {
	out := make([]model.RecordID, len(ids))
	for i, id := range ids {
		out[i] = model.RecordID(id)
	}
	return out
}
