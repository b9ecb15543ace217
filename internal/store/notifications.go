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

type NotificationStore struct {
	coll *mongo.Collection
}

func NewNotificationStore(m *Mongo) *NotificationStore {
	return &NotificationStore{coll: m.Database().Collection("notifications")}
}

func (s *NotificationStore) Insert(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	if n.Recipients == nil {
		n.Recipients = []string{}
	}
	if n.ReadBy == nil {
		n.ReadBy = []string{}
	}
	_, err := s.coll.InsertOne(ctx, n)
	return err
}

// visibleTo matches broadcasts (empty recipient list) plus notifications
// addressed to the user.
func visibleTo(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"recipients": bson.M{"$size": 0}},
		bson.M{"recipients": userID},
	}}
}

// ListFor returns notifications visible to a user, newest first.
func (s *NotificationStore) ListFor(ctx context.Context, userID string, offset, limit int) ([]models.Notification, int64, error) {
	filter := visibleTo(userID)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var ns []models.Notification
	if err := cur.All(ctx, &ns); err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

// ListAll is the admin view over every notification.
func (s *NotificationStore) ListAll(ctx context.Context, offset, limit int) ([]models.Notification, int64, error) {
	total, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var ns []models.Notification
	if err := cur.All(ctx, &ns); err != nil {
		return nil, 0, err
	}
	return ns, total, nil
}

// MarkRead records that a user has seen a notification.
func (s *NotificationStore) MarkRead(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := s.coll.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"readBy": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead records the user on every notification they can see.
func (s *NotificationStore) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.coll.UpdateMany(
		ctx,
		visibleTo(userID),
		bson.M{"$addToSet": bson.M{"readBy": userID}},
	)
	return err
}

// UnreadCount counts visible notifications the user has not read yet.
func (s *NotificationStore) UnreadCount(ctx context.Context, userID string) (int64, error) {
	filter := visibleTo(userID)
	filter["readBy"] = bson.M{"$ne": userID}
	return s.coll.CountDocuments(ctx, filter)
}

func (s *NotificationStore) Update(ctx context.Context, id string, set bson.M) (*models.Notification, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set["updatedAt"] = time.Now()

	var n models.Notification
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NotificationStore) Delete(ctx context.Context, id string) error {
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
