package params

import (
	"github.com/m-mizutani/urbop/pkg/adapter"
	"github.com/m-mizutani/urbop/pkg/repository"
)

// Default locations of the parameter workbook and its dump
const (
	DefaultInputPath  = "/home/ubuntu/upload/MCDAParameters.xlsx"
	DefaultOutputPath = "/home/ubuntu/mcd_parameters.txt"
)

// UseCase provides MCDA parameter extraction and publishing
type UseCase struct {
	storage adapter.Storage
	repo    repository.Repository
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithStorage enables uploading the dump to object storage
func WithStorage(s adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.storage = s
	}
}

// WithRepository enables saving parameters to a repository
func WithRepository(r repository.Repository) Option {
	return func(uc *UseCase) {
		uc.repo = r
	}
}

// New creates a new params UseCase instance
func New(opts ...Option) *UseCase {
	uc := &UseCase{}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
