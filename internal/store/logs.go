package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/balmandal/community-api/internal/models"
)

// ActivityLogStore persists the back-office audit trail.
type ActivityLogStore struct {
	coll *mongo.Collection
}

func NewActivityLogStore(m *Mongo) *ActivityLogStore {
	return &ActivityLogStore{coll: m.Database().Collection("logs")}
}

func (s *ActivityLogStore) Insert(ctx context.Context, l *models.ActivityLog) error {
	if l.ID.IsZero() {
		l.ID = primitive.NewObjectID()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	_, err := s.coll.InsertOne(ctx, l)
	return err
}

func (s *ActivityLogStore) List(ctx context.Context, offset, limit int) ([]models.ActivityLog, int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var logs []models.ActivityLog
	if err := cur.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
