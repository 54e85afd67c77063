package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/urbop/pkg/model"
)

// Repository defines the interface for parameter persistence
type Repository interface {
	// PutParameters saves parameters, replacing rows with the same category and name
	PutParameters(ctx context.Context, params []*model.Parameter) error

	// ListParameters retrieves all stored parameters ordered by category and name
	ListParameters(ctx context.Context) ([]*model.Parameter, error)
}

var parameterNamespace = uuid.MustParse("6f1d3c7e-58a4-4d0a-9a53-3f1f4b8f2c11")

// ParameterID derives a stable document ID from category and parameter name
func ParameterID(p *model.Parameter) string {
	return uuid.NewSHA1(parameterNamespace, []byte(p.Category+"\x00"+p.Parameter)).String()
}
