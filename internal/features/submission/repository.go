package submission

import (
	"context"
	"errors"
	"time"

	"go-studio-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *Submission) error
	Get(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, clientID string, limit, offset int64) ([]Submission, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	AddImage(ctx context.Context, id string, image Image) error
	MarkImageDeleted(ctx context.Context, id, imageID string) error
	AddThreadEntry(ctx context.Context, id string, entry ThreadEntry) error
}

type SubmissionRepositoryImpl struct {
	collection *mongo.Collection
}

func NewSubmissionRepository(db *database.MongodbDB) SubmissionRepository {
	return &SubmissionRepositoryImpl{collection: db.DB.Collection("submissions")}
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, sub *Submission) error {
	if sub.ID.IsZero() {
		sub.ID = primitive.NewObjectID()
	}
	if sub.Status == "" {
		sub.Status = StatusPending
	}
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, sub)
	return err
}

func (r *SubmissionRepositoryImpl) Get(ctx context.Context, id string) (*Submission, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var sub Submission
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepositoryImpl) List(ctx context.Context, clientID string, limit, offset int64) ([]Submission, error) {
	filter := bson.M{}
	if clientID != "" {
		filter["client_id"] = clientID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var subs []Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubmissionRepositoryImpl) UpdateStatus(ctx context.Context, id string, status Status) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("submission not found")
	}
	return nil
}

func (r *SubmissionRepositoryImpl) AddImage(ctx context.Context, id string, image Image) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"images": image},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
}

func (r *SubmissionRepositoryImpl) MarkImageDeleted(ctx context.Context, id, imageID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	now := time.Now()
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "images.id": imageID},
		bson.M{"$set": bson.M{
			"images.$.deleted":    true,
			"images.$.deleted_at": now,
			"updated_at":          now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("image not found")
	}
	return nil
}

func (r *SubmissionRepositoryImpl) AddThreadEntry(ctx context.Context, id string, entry ThreadEntry) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$push": bson.M{"thread": entry},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	return err
}
