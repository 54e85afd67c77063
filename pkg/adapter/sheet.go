package adapter

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetSource yields the cell text of a worksheet, header row first
type SheetSource interface {
	Rows(ctx context.Context) ([][]string, error)
}

type xlsxSource struct {
	path  string
	sheet string
}

// XLSXOption is a functional option for the xlsx source
type XLSXOption func(*xlsxSource)

// WithWorksheet selects a worksheet by name instead of the first one
func WithWorksheet(name string) XLSXOption {
	return func(s *xlsxSource) {
		s.sheet = name
	}
}

// NewXLSXSource reads a local .xlsx workbook. The file is opened lazily by Rows.
func NewXLSXSource(path string, opts ...XLSXOption) SheetSource {
	s := &xlsxSource{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *xlsxSource) Rows(ctx context.Context) ([][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook", goerr.V("path", s.path))
	}
	defer f.Close()

	sheet := s.sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, goerr.New("workbook has no worksheet", goerr.V("path", s.path))
		}
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read worksheet",
			goerr.V("path", s.path),
			goerr.V("sheet", sheet))
	}

	return rows, nil
}

type googleSheetSource struct {
	service       *sheets.Service
	spreadsheetID string
	area          string
}

// NewGoogleSheetSource reads a range such as "Parameters!A1:E" from a Google
// Sheets spreadsheet. An empty credentialsFile falls back to application
// default credentials.
func NewGoogleSheetSource(ctx context.Context, spreadsheetID, area, credentialsFile string) (SheetSource, error) {
	opts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Sheets client")
	}

	return &googleSheetSource{
		service:       service,
		spreadsheetID: spreadsheetID,
		area:          area,
	}, nil
}

func (s *googleSheetSource) Rows(ctx context.Context) ([][]string, error) {
	response, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.area).Context(ctx).Do()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve data from sheet",
			goerr.V("spreadsheet", s.spreadsheetID),
			goerr.V("range", s.area))
	}

	return ValuesToRows(response.Values), nil
}

// ValuesToRows converts Sheets API values to cell text
func ValuesToRows(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))
	for _, row := range values {
		record := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				record[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, record)
	}
	return rows
}
