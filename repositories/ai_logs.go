package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"review-digest/models"
)

type AILogRepository struct {
	col *mongo.Collection
}

func NewAILogRepository(db *mongo.Database) *AILogRepository {
	return &AILogRepository{col: db.Collection("ai_logs")}
}

func (r *AILogRepository) Insert(ctx context.Context, log models.AILog) (*mongo.InsertOneResult, error) {
	if log.RequestedAt.IsZero() {
		log.RequestedAt = time.Now()
	}
	return r.col.InsertOne(ctx, log)
}

// SaveAILog stores a summary call log.
func (r *AILogRepository) SaveAILog(ctx context.Context, log models.AILog) error {
	_, err := r.Insert(ctx, log)
	return err
}
