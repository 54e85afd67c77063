package params

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/utils/logging"
	"gopkg.in/yaml.v3"
)

// Format selects how parameters are dumped
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = goerr.New("unknown dump format")

// Validate checks if the format is supported
func (f Format) Validate() error {
	switch f {
	case FormatText, FormatYAML, FormatJSON:
		return nil
	default:
		return goerr.Wrap(ErrUnknownFormat, "unsupported format", goerr.V("format", f))
	}
}

// ContentType returns the MIME type of a dump in this format
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Persist writes the text dump of params to path, one parameter per line.
// An existing file is truncated.
func (u *UseCase) Persist(ctx context.Context, params []*model.Parameter, path string) error {
	return u.PersistAs(ctx, params, path, FormatText)
}

// PersistAs is Persist with an explicit format
func (u *UseCase) PersistAs(ctx context.Context, params []*model.Parameter, path string, format Format) error {
	if err := format.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}

	if err := Dump(f, params, format); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to write output file", goerr.V("path", path))
	}

	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close output file", goerr.V("path", path))
	}

	logging.From(ctx).Info("parameters written", "path", path, "count", len(params), "format", format)
	return nil
}

// Dump writes params to w in the given format
func Dump(w io.Writer, params []*model.Parameter, format Format) error {
	switch format {
	case FormatText:
		bw := bufio.NewWriter(w)
		for _, p := range params {
			if _, err := bw.WriteString(p.String() + "\n"); err != nil {
				return goerr.Wrap(err, "failed to write parameter")
			}
		}
		if err := bw.Flush(); err != nil {
			return goerr.Wrap(err, "failed to flush parameters")
		}

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(params); err != nil {
			return goerr.Wrap(err, "failed to encode yaml")
		}
		if err := enc.Close(); err != nil {
			return goerr.Wrap(err, "failed to close yaml encoder")
		}

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(params); err != nil {
			return goerr.Wrap(err, "failed to encode json")
		}

	default:
		return format.Validate()
	}

	return nil
}

// Publish uploads the file at path, written in format, to storage under key
// and saves params to the repository. Each step runs only when configured.
func (u *UseCase) Publish(ctx context.Context, params []*model.Parameter, path, key string, format Format) error {
	logger := logging.From(ctx)

	if u.storage != nil {
		f, err := os.Open(path)
		if err != nil {
			return goerr.Wrap(err, "failed to open dump for upload", goerr.V("path", path))
		}
		defer f.Close()

		if err := u.storage.Upload(ctx, key, format.ContentType(), f); err != nil {
			return goerr.Wrap(err, "failed to upload dump", goerr.V("key", key))
		}
		logger.Info("dump uploaded", "key", key, "format", format)
	}

	if u.repo != nil {
		if err := u.repo.PutParameters(ctx, params); err != nil {
			return goerr.Wrap(err, "failed to save parameters")
		}
		logger.Info("parameters saved", "count", len(params))
	}

	return nil
}
