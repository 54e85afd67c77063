package adapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/kolo/xmlrpc"
	"github.com/m-mizutani/goerr/v2"
)

const (
	odooCommonPath = "/xmlrpc/2/common"
	odooObjectPath = "/xmlrpc/2/object"
)

// OdooRPC is the wire-level interface of an Odoo server
type OdooRPC interface {
	// Version calls the introspection endpoint and returns the raw version info
	Version(ctx context.Context) (map[string]any, error)

	// Authenticate returns the raw authenticate result: a user id, or false on rejection
	Authenticate(ctx context.Context, db, username, secret string) (any, error)

	// ExecuteKw invokes a model method through execute_kw
	ExecuteKw(ctx context.Context, db string, uid int64, secret, model, method string, args []any, kwargs map[string]any) (any, error)
}

type xmlrpcClient struct {
	baseURL string
	common  *xmlrpc.Client
	object  *xmlrpc.Client
}

// OdooOption is a functional option for the XML-RPC client
type OdooOption func(*odooConfig)

type odooConfig struct {
	transport http.RoundTripper
}

// WithTransport sets the HTTP transport used for both endpoints
func WithTransport(rt http.RoundTripper) OdooOption {
	return func(c *odooConfig) {
		c.transport = rt
	}
}

// NewOdooXMLRPC creates an XML-RPC client for the common and object endpoints
// under baseURL. No request is sent.
func NewOdooXMLRPC(baseURL string, opts ...OdooOption) (OdooRPC, error) {
	var cfg odooConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	base := strings.TrimRight(baseURL, "/")

	common, err := xmlrpc.NewClient(base+odooCommonPath, cfg.transport)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create common endpoint client", goerr.V("url", base+odooCommonPath))
	}

	object, err := xmlrpc.NewClient(base+odooObjectPath, cfg.transport)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create object endpoint client", goerr.V("url", base+odooObjectPath))
	}

	return &xmlrpcClient{
		baseURL: base,
		common:  common,
		object:  object,
	}, nil
}

func (x *xmlrpcClient) Version(ctx context.Context) (map[string]any, error) {
	var reply map[string]any
	if err := x.common.Call("version", nil, &reply); err != nil {
		return nil, goerr.Wrap(err, "failed to call version", goerr.V("url", x.baseURL))
	}
	return reply, nil
}

func (x *xmlrpcClient) Authenticate(ctx context.Context, db, username, secret string) (any, error) {
	var reply any
	args := []any{db, username, secret, map[string]any{}}
	if err := x.common.Call("authenticate", args, &reply); err != nil {
		return nil, goerr.Wrap(err, "failed to call authenticate",
			goerr.V("url", x.baseURL),
			goerr.V("db", db),
			goerr.V("username", username))
	}
	return reply, nil
}

func (x *xmlrpcClient) ExecuteKw(ctx context.Context, db string, uid int64, secret, model, method string, args []any, kwargs map[string]any) (any, error) {
	if args == nil {
		args = []any{}
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}

	var reply any
	params := []any{db, uid, secret, model, method, args, kwargs}
	if err := x.object.Call("execute_kw", params, &reply); err != nil {
		return nil, goerr.Wrap(err, "failed to call execute_kw",
			goerr.V("url", x.baseURL),
			goerr.V("model", model),
			goerr.V("method", method))
	}
	return reply, nil
}
