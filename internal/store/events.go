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

type EventStore struct {
	coll *mongo.Collection
}

func NewEventStore(m *Mongo) *EventStore {
	return &EventStore{coll: m.Database().Collection("events")}
}

func (s *EventStore) Insert(ctx context.Context, e *models.Event) error {
	now := time.Now()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Attendees == nil {
		e.Attendees = []primitive.ObjectID{}
	}
	_, err := s.coll.InsertOne(ctx, e)
	return err
}

func (s *EventStore) FindByID(ctx context.Context, id string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var e models.Event
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns events sorted by date ascending; upcoming only when the
// category filter alone does not bound the query.
func (s *EventStore) List(ctx context.Context, category string, upcomingOnly bool, offset, limit int) ([]models.Event, int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if upcomingOnly {
		filter["date"] = bson.M{"$gte": time.Now()}
	}

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (s *EventStore) Update(ctx context.Context, id string, set bson.M) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set["updatedAt"] = time.Now()

	var e models.Event
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventStore) Delete(ctx context.Context, id string) error {
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

// Join adds a user to the attendee list; $addToSet keeps repeat joins
// idempotent. Capacity is enforced in the filter so a full event never
// matches.
func (s *EventStore) Join(ctx context.Context, eventID, userID string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	var e models.Event
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{
			"_id": oid,
			// maxAttendees <= 0 means no capacity limit.
			"$expr": bson.M{
				"$or": bson.A{
					bson.M{"$lte": bson.A{"$maxAttendees", 0}},
					bson.M{"$lt": bson.A{bson.M{"$size": "$attendees"}, "$maxAttendees"}},
				},
			},
		},
		bson.M{"$addToSet": bson.M{"attendees": uid}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Leave removes a user from the attendee list. The filter requires the user
// to be attending, so a missing event and a never-joined user both come back
// as ErrNotFound.
func (s *EventStore) Leave(ctx context.Context, eventID, userID string) (*models.Event, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, ErrNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	var e models.Event
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "attendees": uid},
		bson.M{"$pull": bson.M{"attendees": uid}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
