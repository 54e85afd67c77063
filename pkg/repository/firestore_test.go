package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/urbop/pkg/model"
	"github.com/m-mizutani/urbop/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func testParameters() []*model.Parameter {
	return []*model.Parameter{
		{Category: "Context", Parameter: "Topography", Description: "Terrain", EvaluationCriteria: "Flat = higher", Score: "4"},
		{Category: "Context", Parameter: "Access", Description: "Roads", EvaluationCriteria: "Paved = higher", Score: "3"},
		{Category: "Market", Parameter: "Demand", Description: "Users", EvaluationCriteria: "More = higher", Score: "5"},
	}
}

func testRepository(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	gt.NoError(t, repo.PutParameters(ctx, testParameters()))

	// re-import with a changed score overwrites instead of duplicating
	updated := &model.Parameter{Category: "Context", Parameter: "Access", Description: "Roads", EvaluationCriteria: "Paved = higher", Score: "1"}
	gt.NoError(t, repo.PutParameters(ctx, []*model.Parameter{updated}))

	params, err := repo.ListParameters(ctx)
	gt.NoError(t, err)

	var found *model.Parameter
	count := 0
	for _, p := range params {
		if p.Category == "Context" && p.Parameter == "Access" {
			found = p
			count++
		}
	}
	gt.Equal(t, count, 1)
	gt.V(t, found).NotNil()
	gt.Equal(t, found.Score, "1")
}

func TestMemory(t *testing.T) {
	repo := repository.NewMemory()
	testRepository(t, repo)

	params, err := repo.ListParameters(context.Background())
	gt.NoError(t, err)
	gt.A(t, params).Length(3)
	gt.Equal(t, params[0].Parameter, "Access")
	gt.Equal(t, params[1].Parameter, "Topography")
	gt.Equal(t, params[2].Category, "Market")
}

func TestFirestore(t *testing.T) {
	repo := setupFirestore(t)
	testRepository(t, repo)
}

func TestParameterID(t *testing.T) {
	a := repository.ParameterID(&model.Parameter{Category: "Context", Parameter: "Access", Score: "1"})
	b := repository.ParameterID(&model.Parameter{Category: "Context", Parameter: "Access", Score: "5"})
	c := repository.ParameterID(&model.Parameter{Category: "Market", Parameter: "Access"})

	gt.Equal(t, a, b)
	gt.NotEqual(t, a, c)
}
