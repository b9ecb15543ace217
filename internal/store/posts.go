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

type PostStore struct {
	coll *mongo.Collection
}

func NewPostStore(m *Mongo) *PostStore {
	return &PostStore{coll: m.Database().Collection("posts")}
}

func (s *PostStore) Insert(ctx context.Context, p *models.Post) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.Likes == nil {
		p.Likes = []string{}
	}
	if p.Comments == nil {
		p.Comments = []models.Comment{}
	}
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *PostStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var p models.Post
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest first. approvedOnly hides unmoderated posts.
func (s *PostStore) List(ctx context.Context, approvedOnly bool, offset, limit int) ([]models.Post, int64, error) {
	filter := bson.M{}
	if approvedOnly {
		filter["isApproved"] = true
	}

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

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostStore) SetApproved(ctx context.Context, id string, approved bool) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var p models.Post
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isApproved": approved, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial update to a post's own fields. Callers decide
// who may edit; this only touches content and image.
func (s *PostStore) Update(ctx context.Context, id string, set bson.M) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	set["updatedAt"] = time.Now()

	var p models.Post
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ToggleLike adds the user to the like list, or removes them when already
// present, and returns the updated post.
func (s *PostStore) ToggleLike(ctx context.Context, id, userID string) (*models.Post, error) {
	p, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	op := bson.M{"$addToSet": bson.M{"likes": userID}}
	for _, l := range p.Likes {
		if l == userID {
			op = bson.M{"$pull": bson.M{"likes": userID}}
			break
		}
	}

	var updated models.Post
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": p.ID},
		op,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PostStore) AddComment(ctx context.Context, id string, c models.Comment) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()

	var p models.Post
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": c}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RemoveComment pulls one comment off a post. The filter requires the
// comment to exist, so a missing post and a missing comment both come back
// as ErrNotFound.
func (s *PostStore) RemoveComment(ctx context.Context, postID, commentID string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, ErrNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, ErrNotFound
	}

	var p models.Post
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "comments._id": cid},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
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
