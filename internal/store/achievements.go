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

type AchievementStore struct {
	coll *mongo.Collection
}

func NewAchievementStore(m *Mongo) *AchievementStore {
	return &AchievementStore{coll: m.Database().Collection("achievements")}
}

func (s *AchievementStore) Insert(ctx context.Context, a *models.Achievement) error {
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.Participants == nil {
		a.Participants = []models.Participant{}
	}
	_, err := s.coll.InsertOne(ctx, a)
	return err
}

func (s *AchievementStore) List(ctx context.Context, category string, activeOnly bool, offset, limit int) ([]models.Achievement, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if activeOnly {
		filter["isActive"] = true
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var achievements []models.Achievement
	if err := cur.All(ctx, &achievements); err != nil {
		return nil, 0, err
	}
	return achievements, total, nil
}

// ListForUser returns achievements a given user participated in.
func (s *AchievementStore) ListForUser(ctx context.Context, userID string) ([]models.Achievement, error) {
	cur, err := s.coll.Find(ctx, bson.M{"participants.userId": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var achievements []models.Achievement
	if err := cur.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (s *AchievementStore) Update(ctx context.Context, id string, set bson.M) (*models.Achievement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set["updatedAt"] = time.Now()

	var a models.Achievement
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AchievementStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
