package model

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrMissingColumn = goerr.New("required column is missing")
	ErrEmptySheet    = goerr.New("sheet has no header row")
)

// Column headers of the MCDA parameter sheet
const (
	ColumnSection            = "Section"
	ColumnParameter          = "Parameter"
	ColumnDescription        = "Description"
	ColumnEvaluationCriteria = "Evaluation Criteria (1 = Least Favorable, 5 = Most Favorable)"
	ColumnScore              = "Score"
)

// ParameterColumns lists the sheet headers in output key order
var ParameterColumns = []string{
	ColumnSection,
	ColumnParameter,
	ColumnDescription,
	ColumnEvaluationCriteria,
	ColumnScore,
}

// Parameter is one row of the MCDA parameter sheet. Values are kept verbatim
// as the cell text.
type Parameter struct {
	Category           string `json:"category" yaml:"category" firestore:"category"`
	Parameter          string `json:"parameter" yaml:"parameter" firestore:"parameter"`
	Description        string `json:"description" yaml:"description" firestore:"description"`
	EvaluationCriteria string `json:"evaluation_criteria" yaml:"evaluation_criteria" firestore:"evaluation_criteria"`
	Score              string `json:"score" yaml:"score" firestore:"score"`
}

// numericScore matches a score cell that reads as a number; "007" does not
var numericScore = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// String renders the parameter in the dict-like form used by the text dump:
//
//	{'category': 'Context', 'parameter': 'Topography', ..., 'score': 5}
func (p Parameter) String() string {
	pairs := []struct {
		key     string
		value   string
		numeric bool
	}{
		{"category", p.Category, false},
		{"parameter", p.Parameter, false},
		{"description", p.Description, false},
		{"evaluation_criteria", p.EvaluationCriteria, false},
		{"score", p.Score, true},
	}

	var b strings.Builder
	b.WriteString("{")
	for i, kv := range pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(kv.key))
		b.WriteString(": ")
		b.WriteString(cellRepr(kv.value, kv.numeric))
	}
	b.WriteString("}")
	return b.String()
}

// cellRepr renders one cell. Only a numeric column may print unquoted.
func cellRepr(v string, numeric bool) string {
	switch {
	case v == "":
		return "nan"
	case numeric && numericScore.MatchString(v):
		return v
	default:
		return quote(v)
	}
}

// quote single-quotes s, switching to double quotes when s holds a single
// quote but no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r == rune(q) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
