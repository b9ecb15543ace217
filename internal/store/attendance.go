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

type AttendanceStore struct {
	coll *mongo.Collection
}

func NewAttendanceStore(m *Mongo) *AttendanceStore {
	return &AttendanceStore{coll: m.Database().Collection("attendance")}
}

// truncateToDay normalizes a mark to the calendar day so the unique index on
// user+date+mandal holds one record per sabha day.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Mark upserts an attendance record. Re-marking the same user on the same
// day overwrites the status rather than failing on the unique index.
func (s *AttendanceStore) Mark(ctx context.Context, a *models.Attendance) (*models.Attendance, error) {
	a.Date = truncateToDay(a.Date)
	now := time.Now()

	var out models.Attendance
	err := s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"user": a.UserID, "date": a.Date, "mandal": a.Mandal},
		bson.M{
			"$set": bson.M{
				"status":    a.Status,
				"markedBy":  a.MarkedBy,
				"updatedAt": now,
			},
			"$setOnInsert": bson.M{
				"_id":       primitive.NewObjectID(),
				"createdAt": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListForUser returns a member's own attendance history, newest first.
func (s *AttendanceStore) ListForUser(ctx context.Context, userID string) ([]models.Attendance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var marks []models.Attendance
	if err := cur.All(ctx, &marks); err != nil {
		return nil, err
	}
	return marks, nil
}

// ListByDay is the admin roster view for one day, optionally narrowed to a
// mandal.
func (s *AttendanceStore) ListByDay(ctx context.Context, day time.Time, mandal string) ([]models.Attendance, error) {
	filter := bson.M{"date": truncateToDay(day)}
	if mandal != "" {
		filter["mandal"] = mandal
	}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "user", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var marks []models.Attendance
	if err := cur.All(ctx, &marks); err != nil {
		return nil, err
	}
	return marks, nil
}
