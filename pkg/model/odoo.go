package model

import (
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrConfiguration = goerr.New("invalid odoo configuration")
	ErrNotConnected  = goerr.New("not connected to odoo, call Connect first")
)

// UserID is the numeric session identity returned by a successful authentication.
// Zero means no session.
type UserID int64

// RecordID identifies a record of a remote model
type RecordID int64

// NoRecord is returned by Create when the remote call fails
const NoRecord RecordID = 0

// Record is an opaque field/value mapping shaped by the remote model
type Record map[string]any

// Domain is a filter expression forwarded as-is, e.g. [["is_company", "=", true]]
type Domain []any

// Credentials holds the connection parameters of an Odoo server
type Credentials struct {
	URL      string
	Database string
	Username string
	APIKey   string
	Password string
}

// Secret returns the API key if set, otherwise the password
func (c Credentials) Secret() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.Password
}

// Validate checks that a usable secret is present. The URL is not checked
// here; an unusable endpoint surfaces as a failed Connect.
func (c Credentials) Validate() error {
	if c.APIKey == "" && c.Password == "" {
		return goerr.Wrap(ErrConfiguration, "either api key or password must be provided")
	}
	return nil
}

// ServerVersion is the result of the introspection "version" call
type ServerVersion struct {
	ServerVersion   string
	ProtocolVersion int64
	Raw             map[string]any
}
