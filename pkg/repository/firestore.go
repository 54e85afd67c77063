package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/urbop/pkg/model"
	"google.golang.org/api/iterator"
)

const collectionParameters = "parameters"

// Firestore implements Repository using Cloud Firestore
type Firestore struct {
	client *firestore.Client
}

// New creates a new Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID),
			goerr.V("database", databaseID))
	}

	return &Firestore{client: client}, nil
}

// Close releases the underlying client
func (r *Firestore) Close() error {
	return r.client.Close()
}

func (r *Firestore) PutParameters(ctx context.Context, params []*model.Parameter) error {
	col := r.client.Collection(collectionParameters)
	for _, p := range params {
		id := ParameterID(p)
		if _, err := col.Doc(id).Set(ctx, p); err != nil {
			return goerr.Wrap(err, "failed to put parameter",
				goerr.V("id", id),
				goerr.V("category", p.Category),
				goerr.V("parameter", p.Parameter))
		}
	}
	return nil
}

func (r *Firestore) ListParameters(ctx context.Context) ([]*model.Parameter, error) {
	iter := r.client.Collection(collectionParameters).
		OrderBy("category", firestore.Asc).
		OrderBy("parameter", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var params []*model.Parameter
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate parameters")
		}

		var p model.Parameter
		if err := doc.DataTo(&p); err != nil {
			return nil, goerr.Wrap(err, "failed to decode parameter", goerr.V("id", doc.Ref.ID))
		}
		params = append(params, &p)
	}

	return params, nil
}
