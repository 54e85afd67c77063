package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urbop/pkg/model"
)

func TestParameterString(t *testing.T) {
	testCases := []struct {
		name   string
		param  model.Parameter
		expect string
	}{
		{
			name: "plain values",
			param: model.Parameter{
				Category:           "Context",
				Parameter:          "Topography",
				Description:        "Terrain and Natural Features",
				EvaluationCriteria: "Flat land = higher score",
				Score:              "5",
			},
			expect: "{'category': 'Context', 'parameter': 'Topography', 'description': 'Terrain and Natural Features', 'evaluation_criteria': 'Flat land = higher score', 'score': 5}",
		},
		{
			name: "empty cells",
			param: model.Parameter{
				Category:  "Context",
				Parameter: "Zoning",
			},
			expect: "{'category': 'Context', 'parameter': 'Zoning', 'description': nan, 'evaluation_criteria': nan, 'score': nan}",
		},
		{
			name: "single quote switches to double quotes",
			param: model.Parameter{
				Category:           "Market",
				Parameter:          "Owner's equity",
				Description:        "a\nb",
				EvaluationCriteria: `say "hi" it's`,
				Score:              "2.5",
			},
			expect: `{'category': 'Market', 'parameter': "Owner's equity", 'description': 'a\nb', 'evaluation_criteria': 'say "hi" it\'s', 'score': 2.5}`,
		},
		{
			name: "non numeric score is quoted",
			param: model.Parameter{
				Category:           "Context",
				Parameter:          "Access",
				Description:        `C:\roads`,
				EvaluationCriteria: "1-5",
				Score:              "high",
			},
			expect: `{'category': 'Context', 'parameter': 'Access', 'description': 'C:\\roads', 'evaluation_criteria': '1-5', 'score': 'high'}`,
		},
		{
			name: "digits outside score stay quoted",
			param: model.Parameter{
				Category:           "Context",
				Parameter:          "2020",
				Description:        "42",
				EvaluationCriteria: "5",
				Score:              "007",
			},
			expect: "{'category': 'Context', 'parameter': '2020', 'description': '42', 'evaluation_criteria': '5', 'score': '007'}",
		},
		{
			name: "zero and negative scores",
			param: model.Parameter{
				Category:  "Context",
				Parameter: "Risk",
				Score:     "-0.5",
			},
			expect: "{'category': 'Context', 'parameter': 'Risk', 'description': nan, 'evaluation_criteria': nan, 'score': -0.5}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, tc.param.String(), tc.expect)
		})
	}
}

func TestCredentialsValidate(t *testing.T) {
	t.Run("api key only", func(t *testing.T) {
		c := model.Credentials{URL: "https://example.odoo.com", APIKey: "key"}
		gt.NoError(t, c.Validate())
		gt.Equal(t, c.Secret(), "key")
	})

	t.Run("password only", func(t *testing.T) {
		c := model.Credentials{URL: "https://example.odoo.com", Password: "pass"}
		gt.NoError(t, c.Validate())
		gt.Equal(t, c.Secret(), "pass")
	})

	t.Run("api key wins over password", func(t *testing.T) {
		c := model.Credentials{URL: "https://example.odoo.com", APIKey: "key", Password: "pass"}
		gt.Equal(t, c.Secret(), "key")
	})

	t.Run("no secret", func(t *testing.T) {
		c := model.Credentials{URL: "https://example.odoo.com"}
		gt.Error(t, c.Validate()).Is(model.ErrConfiguration)
	})

	t.Run("no url is accepted", func(t *testing.T) {
		c := model.Credentials{Database: "db", Username: "u", APIKey: "key"}
		gt.NoError(t, c.Validate())
	})
}
