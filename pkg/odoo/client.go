// Package odoo provides a thin client for the object model of an Odoo server.
//
// Every data operation requires a session established by Connect. Remote
// failures are never returned as errors: they are logged through the context
// logger and reported as a neutral value (empty slice, NoRecord, false or
// nil). The only error a data operation returns is model.ErrNotConnected.
// Callers therefore cannot tell "no rows" from "request failed" by the return
// value alone.
package odoo

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/adapter"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/utils/logging"
)

// Client is not safe for concurrent use
type Client struct {
	creds   model.Credentials
	rpc     adapter.OdooRPC
	uid     model.UserID
	version *model.ServerVersion
}

// Option is a functional option for Client
type Option func(*clientOptions)

type clientOptions struct {
	rpc       adapter.OdooRPC
	transport http.RoundTripper
}

// WithRPC replaces the XML-RPC transport
func WithRPC(rpc adapter.OdooRPC) Option {
	return func(o *clientOptions) {
		o.rpc = rpc
	}
}

// WithHTTPTransport sets the HTTP round tripper of the default XML-RPC transport
func WithHTTPTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// New validates the credentials and prepares a client. It does not contact the server.
func New(creds model.Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	rpc := o.rpc
	if rpc == nil {
		var rpcOpts []adapter.OdooOption
		if o.transport != nil {
			rpcOpts = append(rpcOpts, adapter.WithTransport(o.transport))
		}

		var err error
		rpc, err = adapter.NewOdooXMLRPC(creds.URL, rpcOpts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create odoo transport")
		}
	}

	return &Client{
		creds: creds,
		rpc:   rpc,
	}, nil
}

// UserID returns the session identity, zero before a successful Connect
func (c *Client) UserID() model.UserID {
	return c.uid
}

// Connected reports whether a session is established
func (c *Client) Connected() bool {
	return c.uid != 0
}

// Version returns the server version seen by the last Connect, or nil
func (c *Client) Version() *model.ServerVersion {
	return c.version
}

// Connect checks reachability through the version endpoint and then
// authenticates. It returns the session identity and true on success. Any
// failure is logged, drops the previous session and is reported as (0, false).
func (c *Client) Connect(ctx context.Context) (model.UserID, bool) {
	logger := logging.From(ctx).With("url", c.creds.URL, "db", c.creds.Database)

	// no session survives a failed attempt
	c.uid = 0

	raw, err := c.rpc.Version(ctx)
	if err != nil {
		logger.Warn("connection error", "error", err)
		return 0, false
	}

	c.version = parseVersion(raw)
	logger.Info("connected to odoo server", "server_version", c.version.ServerVersion)

	reply, err := c.rpc.Authenticate(ctx, c.creds.Database, c.creds.Username, c.creds.Secret())
	if err != nil {
		logger.Warn("connection error", "error", err)
		return 0, false
	}

	uid, ok := toInt64(reply)
	if !ok || uid == 0 {
		logger.Warn("authentication failed", "username", c.creds.Username)
		return 0, false
	}

	c.uid = model.UserID(uid)
	logger.Info("authentication successful", "uid", c.uid)
	return c.uid, true
}

// SearchReadInput is the query of SearchRead. Zero Limit, Offset and empty
// Order are not sent.
type SearchReadInput struct {
	Domain model.Domain
	Fields []string
	Limit  int
	Offset int
	Order  string
}

// SearchRead returns the records of modelName matching the domain. A remote
// failure yields an empty slice.
func (c *Client) SearchRead(ctx context.Context, modelName string, input SearchReadInput) ([]model.Record, error) {
	if err := c.requireSession(modelName, "search_read"); err != nil {
		return nil, err
	}

	domain := []any(input.Domain)
	if domain == nil {
		domain = []any{}
	}
	fields := make([]any, 0, len(input.Fields))
	for _, f := range input.Fields {
		fields = append(fields, f)
	}

	kwargs := map[string]any{}
	if input.Limit != 0 {
		kwargs["limit"] = input.Limit
	}
	if input.Offset != 0 {
		kwargs["offset"] = input.Offset
	}
	if input.Order != "" {
		kwargs["order"] = input.Order
	}

	reply, err := c.execute(ctx, modelName, "search_read", []any{domain, fields}, kwargs)
	if err != nil {
		return []model.Record{}, nil
	}

	rows, ok := reply.([]any)
	if !ok {
		logging.From(ctx).Warn("unexpected search_read reply", "model", modelName, "reply", reply)
		return []model.Record{}, nil
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		if m, ok := row.(map[string]any); ok {
			records = append(records, model.Record(m))
		}
	}
	return records, nil
}

// Create creates one record and returns its ID, or NoRecord on failure
func (c *Client) Create(ctx context.Context, modelName string, values model.Record) (model.RecordID, error) {
	if err := c.requireSession(modelName, "create"); err != nil {
		return model.NoRecord, err
	}

	reply, err := c.execute(ctx, modelName, "create", []any{recordArg(values)}, nil)
	if err != nil {
		return model.NoRecord, nil
	}

	id, ok := toInt64(reply)
	if !ok {
		logging.From(ctx).Warn("unexpected create reply", "model", modelName, "reply", reply)
		return model.NoRecord, nil
	}
	return model.RecordID(id), nil
}

// Write updates the records identified by ids. It returns false on failure.
func (c *Client) Write(ctx context.Context, modelName string, ids []model.RecordID, values model.Record) (bool, error) {
	if err := c.requireSession(modelName, "write"); err != nil {
		return false, err
	}

	reply, err := c.execute(ctx, modelName, "write", []any{idsArg(ids), recordArg(values)}, nil)
	if err != nil {
		return false, nil
	}
	return truthy(reply), nil
}

// Unlink deletes the records identified by ids. It returns false on failure.
func (c *Client) Unlink(ctx context.Context, modelName string, ids []model.RecordID) (bool, error) {
	if err := c.requireSession(modelName, "unlink"); err != nil {
		return false, err
	}

	reply, err := c.execute(ctx, modelName, "unlink", []any{idsArg(ids)}, nil)
	if err != nil {
		return false, nil
	}
	return truthy(reply), nil
}

// Call invokes an arbitrary method of modelName and returns the raw reply,
// or nil on failure.
func (c *Client) Call(ctx context.Context, modelName, method string, args []any, kwargs map[string]any) (any, error) {
	if err := c.requireSession(modelName, method); err != nil {
		return nil, err
	}

	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	reply, err := c.execute(ctx, modelName, method, args, kwargs)
	if err != nil {
		return nil, nil
	}
	return reply, nil
}

func (c *Client) requireSession(modelName, method string) error {
	if c.uid == 0 {
		return goerr.Wrap(model.ErrNotConnected, "odoo session required",
			goerr.V("model", modelName),
			goerr.V("method", method))
	}
	return nil
}

// execute forwards to execute_kw and logs the failure. The returned error is
// only a signal for the caller to produce its neutral value.
func (c *Client) execute(ctx context.Context, modelName, method string, args []any, kwargs map[string]any) (any, error) {
	reply, err := c.rpc.ExecuteKw(ctx, c.creds.Database, int64(c.uid), c.creds.Secret(), modelName, method, args, kwargs)
	if err != nil {
		logging.From(ctx).Warn("odoo call failed",
			"model", modelName,
			"method", method,
			"error", err,
		)
		return nil, err
	}
	return reply, nil
}

func recordArg(values model.Record) map[string]any {
	if values == nil {
		return map[string]any{}
	}
	return map[string]any(values)
}

func idsArg(ids []model.RecordID) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}

func parseVersion(raw map[string]any) *model.ServerVersion {
	v := &model.ServerVersion{Raw: raw}
	if s, ok := raw["server_version"].(string); ok {
		v.ServerVersion = s
	}
	if p, ok := toInt64(raw["protocol_version"]); ok {
		v.ProtocolVersion = p
	}
	return v
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case nil:
		return false
	default:
		n, ok := toInt64(v)
		return !ok || n != 0
	}
}
