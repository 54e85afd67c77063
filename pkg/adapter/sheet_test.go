package adapter_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urbop/pkg/adapter"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheets map[string][][]any, order ...string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			gt.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			gt.NoError(t, err)
		}

		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			gt.NoError(t, err)
			values := row
			gt.NoError(t, f.SetSheetRow(name, cell, &values))
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	gt.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXSourceFirstSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Parameters": {
			{"Section", "Score"},
			{"Context", 5},
		},
		"Other": {
			{"ignored"},
		},
	}, "Parameters", "Other")

	rows, err := adapter.NewXLSXSource(path).Rows(context.Background())
	gt.NoError(t, err)
	gt.A(t, rows).Length(2)
	gt.Equal(t, rows[0], []string{"Section", "Score"})
	gt.Equal(t, rows[1], []string{"Context", "5"})
}

func TestXLSXSourceNamedSheet(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Parameters": {{"a"}},
		"Other":      {{"b"}},
	}, "Parameters", "Other")

	rows, err := adapter.NewXLSXSource(path, adapter.WithWorksheet("Other")).Rows(context.Background())
	gt.NoError(t, err)
	gt.A(t, rows).Length(1)
	gt.Equal(t, rows[0], []string{"b"})
}

func TestXLSXSourceMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := adapter.NewXLSXSource(path).Rows(context.Background())
	gt.Error(t, err)
	gt.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestXLSXSourceNotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.xlsx")
	gt.NoError(t, os.WriteFile(path, []byte("not a zip"), 0600))

	_, err := adapter.NewXLSXSource(path).Rows(context.Background())
	gt.Error(t, err)
}

func TestValuesToRows(t *testing.T) {
	rows := adapter.ValuesToRows([][]any{
		{"Section", "Score"},
		{"Context", 5, nil},
		{},
	})

	gt.A(t, rows).Length(3)
	gt.Equal(t, rows[1], []string{"Context", "5", ""})
	gt.A(t, rows[2]).Length(0)
}

func TestGoogleSheetSource(t *testing.T) {
	spreadsheetID := os.Getenv("TEST_SHEETS_SPREADSHEET_ID")
	area := os.Getenv("TEST_SHEETS_RANGE")
	if spreadsheetID == "" || area == "" {
		t.Skip("TEST_SHEETS_SPREADSHEET_ID and TEST_SHEETS_RANGE must be set")
	}

	ctx := context.Background()
	src, err := adapter.NewGoogleSheetSource(ctx, spreadsheetID, area, os.Getenv("TEST_SHEETS_CREDENTIALS"))
	gt.NoError(t, err)

	rows, err := src.Rows(ctx)
	gt.NoError(t, err)
	gt.A(t, rows).Longer(0)
}
