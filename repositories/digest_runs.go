package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"review-digest/models"
)

type DigestRunRepository struct {
	col *mongo.Collection
}

func NewDigestRunRepository(db *mongo.Database) *DigestRunRepository {
	return &DigestRunRepository{col: db.Collection("digest_runs")}
}

// Save upserts a run record by run id.
func (r *DigestRunRepository) Save(ctx context.Context, run models.DigestRun) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": run.RunID}, run, opts)
	return err
}

func (r *DigestRunRepository) FindByID(ctx context.Context, runID string) (*models.DigestRun, error) {
	var run models.DigestRun
	if err := r.col.FindOne(ctx, bson.M{"_id": runID}).Decode(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Latest returns the most recently started runs, newest first.
func (r *DigestRunRepository) Latest(ctx context.Context, limit int64) ([]models.DigestRun, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}).SetLimit(limit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var runs []models.DigestRun
	if err := cur.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
