package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/urbop/pkg/model"
)

// Memory is an in-process Repository
type Memory struct {
	mu     sync.Mutex
	params map[string]model.Parameter
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{params: make(map[string]model.Parameter)}
}

func (m *Memory) PutParameters(ctx context.Context, params []*model.Parameter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range params {
		m.params[ParameterID(p)] = *p
	}
	return nil
}

func (m *Memory) ListParameters(ctx context.Context) ([]*model.Parameter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	params := make([]*model.Parameter, 0, len(m.params))
	for _, p := range m.params {
		p := p
		params = append(params, &p)
	}

	sort.Slice(params, func(i, j int) bool {
		if params[i].Category != params[j].Category {
			return params[i].Category < params[j].Category
		}
		return params[i].Parameter < params[j].Parameter
	})

	return params, nil
}
