package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/odoo"
	"github.com/m-mizutani/urbop/pkg/service/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type mockClient struct {
	connected bool

	searchInput odoo.SearchReadInput
	createValue model.Record
	writeIDs    []model.RecordID
	unlinkIDs   []model.RecordID
	callMethod  string
	callArgs    []any
	callKwargs  map[string]any
}

func (m *mockClient) check(modelName string) error {
	if !m.connected {
		return goerr.Wrap(model.ErrNotConnected, "odoo session required", goerr.V("model", modelName))
	}
	return nil
}

func (m *mockClient) SearchRead(ctx context.Context, modelName string, input odoo.SearchReadInput) ([]model.Record, error) {
	if err := m.check(modelName); err != nil {
		return nil, err
	}
	m.searchInput = input
	return []model.Record{{"id": int64(1), "name": "Azure Interior"}}, nil
}

func (m *mockClient) Create(ctx context.Context, modelName string, values model.Record) (model.RecordID, error) {
	if err := m.check(modelName); err != nil {
		return model.NoRecord, err
	}
	m.createValue = values
	return 42, nil
}

func (m *mockClient) Write(ctx context.Context, modelName string, ids []model.RecordID, values model.Record) (bool, error) {
	m.writeIDs = ids
	return true, m.check(modelName)
}

func (m *mockClient) Unlink(ctx context.Context, modelName string, ids []model.RecordID) (bool, error) {
	m.unlinkIDs = ids
	return false, m.check(modelName)
}

func (m *mockClient) Call(ctx context.Context, modelName, method string, args []any, kwargs map[string]any) (any, error) {
	if err := m.check(modelName); err != nil {
		return nil, err
	}
	m.callMethod = method
	m.callArgs = args
	m.callKwargs = kwargs
	return int64(3), nil
}

func connect(t *testing.T, client mcp.OdooClient) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(client, "test")
	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	c := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func callText(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) string {
	t.Helper()

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	gt.NoError(t, err)
	gt.False(t, result.IsError)
	gt.A(t, result.Content).Length(1)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok)
	return text.Text
}

func TestListTools(t *testing.T) {
	session := connect(t, &mockClient{connected: true})

	tools, err := session.ListTools(context.Background(), nil)
	gt.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{"odoo_search_read", "odoo_create", "odoo_write", "odoo_unlink", "odoo_call"} {
		gt.True(t, names[name])
	}
}

func TestSearchReadTool(t *testing.T) {
	client := &mockClient{connected: true}
	session := connect(t, client)

	text := callText(t, session, "odoo_search_read", map[string]any{
		"model":  "res.partner",
		"domain": []any{[]any{"id", "=", 1}},
		"fields": []any{"name"},
		"limit":  10,
	})

	var records []map[string]any
	gt.NoError(t, json.Unmarshal([]byte(text), &records))
	gt.A(t, records).Length(1)
	gt.Equal(t, records[0]["name"], any("Azure Interior"))

	gt.Equal(t, client.searchInput.Limit, 10)
	gt.Equal(t, client.searchInput.Fields, []string{"name"})
	gt.Equal(t, client.searchInput.Domain, model.Domain{[]any{"id", "=", int64(1)}})
}

func TestMutationTools(t *testing.T) {
	client := &mockClient{connected: true}
	session := connect(t, client)

	text := callText(t, session, "odoo_create", map[string]any{
		"model":  "res.partner",
		"values": map[string]any{"name": "New", "country_id": 233},
	})
	gt.Equal(t, text, `{"id":42}`)
	gt.Equal(t, client.createValue, model.Record{"name": "New", "country_id": int64(233)})

	text = callText(t, session, "odoo_write", map[string]any{
		"model":  "res.partner",
		"ids":    []any{1, 2},
		"values": map[string]any{"active": false},
	})
	gt.Equal(t, text, `{"success":true}`)
	gt.Equal(t, client.writeIDs, []model.RecordID{1, 2})

	text = callText(t, session, "odoo_unlink", map[string]any{
		"model": "res.partner",
		"ids":   []any{5},
	})
	gt.Equal(t, text, `{"success":false}`)
	gt.Equal(t, client.unlinkIDs, []model.RecordID{5})

	text = callText(t, session, "odoo_call", map[string]any{
		"model":  "res.partner",
		"method": "search_count",
		"args":   []any{[]any{}},
		"kwargs": map[string]any{"limit": 1},
	})
	gt.Equal(t, text, `{"result":3}`)
	gt.Equal(t, client.callMethod, "search_count")
	gt.Equal(t, client.callArgs, []any{[]any{}})
	gt.Equal(t, client.callKwargs, map[string]any{"limit": int64(1)})
}

func TestToolNotConnected(t *testing.T) {
	session := connect(t, &mockClient{connected: false})

	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      "odoo_search_read",
		Arguments: map[string]any{"model": "res.partner"},
	})
	if err == nil {
		gt.True(t, result.IsError)
	}
}
