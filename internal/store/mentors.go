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

type MentorStore struct {
	coll *mongo.Collection
}

func NewMentorStore(m *Mongo) *MentorStore {
	return &MentorStore{coll: m.Database().Collection("mentors")}
}

func (s *MentorStore) Insert(ctx context.Context, mt *models.Mentor) error {
	now := time.Now()
	mt.CreatedAt, mt.UpdatedAt = now, now
	if mt.ID.IsZero() {
		mt.ID = primitive.NewObjectID()
	}
	if mt.Specialization == nil {
		mt.Specialization = []string{}
	}
	_, err := s.coll.InsertOne(ctx, mt)
	return err
}

// List returns mentors in display order. activeOnly is the public view.
func (s *MentorStore) List(ctx context.Context, activeOnly bool) ([]models.Mentor, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "createdAt", Value: -1},
	})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var mentors []models.Mentor
	if err := cur.All(ctx, &mentors); err != nil {
		return nil, err
	}
	return mentors, nil
}

func (s *MentorStore) Update(ctx context.Context, id string, set bson.M) (*models.Mentor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set["updatedAt"] = time.Now()

	var mt models.Mentor
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mt, nil
}

func (s *MentorStore) Delete(ctx context.Context, id string) error {
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
