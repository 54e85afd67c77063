package params

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/adapter"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/utils/logging"
)

// Extract reads the parameter sheet from src. The first row is the header;
// every following row up to the last non-blank one becomes one Parameter, in
// row order. Blank rows inside the table yield empty parameters.
func (u *UseCase) Extract(ctx context.Context, src adapter.SheetSource) ([]*model.Parameter, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read parameter sheet")
	}

	if len(rows) == 0 {
		return nil, model.ErrEmptySheet
	}

	// .. build index
	index := map[string]int{}
	for i, v := range rows[0] {
		k := strings.TrimSpace(v)
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	for _, col := range model.ParameterColumns {
		if _, ok := index[col]; !ok {
			return nil, goerr.Wrap(model.ErrMissingColumn, "parameter sheet is incomplete", goerr.V("column", col))
		}
	}

	cell := func(row []string, col string) string {
		ix := index[col]
		if ix >= len(row) {
			return ""
		}
		return row[ix]
	}

	// ... records; trailing blank rows are not part of the table
	body := rows[1:]
	for len(body) > 0 && blank(body[len(body)-1]) {
		body = body[:len(body)-1]
	}

	params := make([]*model.Parameter, 0, len(body))
	for _, row := range body {
		params = append(params, &model.Parameter{
			Category:           cell(row, model.ColumnSection),
			Parameter:          cell(row, model.ColumnParameter),
			Description:        cell(row, model.ColumnDescription),
			EvaluationCriteria: cell(row, model.ColumnEvaluationCriteria),
			Score:              cell(row, model.ColumnScore),
		})
	}

	logging.From(ctx).Debug("extracted parameters", "rows", len(rows)-1, "parameters", len(params))

	return params, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
