package crm

import (
	"context"
	"time"

	"go-studio-crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	Get(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, limit, offset int64) ([]Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) error
}

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context, limit, offset int64) ([]Client, error)
}

type LeadRepositoryImpl struct {
	collection *mongo.Collection
}

func NewLeadRepository(db *database.MongodbDB) LeadRepository {
	return &LeadRepositoryImpl{collection: db.DB.Collection("leads")}
}

func (r *LeadRepositoryImpl) Create(ctx context.Context, lead *Lead) error {
	if lead.ID.IsZero() {
		lead.ID = primitive.NewObjectID()
	}
	if lead.Status == "" {
		lead.Status = LeadStatusNew
	}
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lead)
	return err
}

func (r *LeadRepositoryImpl) Get(ctx context.Context, id string) (*Lead, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var lead Lead
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]Lead, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var leads []Lead
	if err = cursor.All(ctx, &leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (r *LeadRepositoryImpl) UpdateStatus(ctx context.Context, id string, status LeadStatus) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now()},
	})
	return err
}

type ClientRepositoryImpl struct {
	collection *mongo.Collection
}

func NewClientRepository(db *database.MongodbDB) ClientRepository {
	return &ClientRepositoryImpl{collection: db.DB.Collection("clients")}
}

func (r *ClientRepositoryImpl) Create(ctx context.Context, client *Client) error {
	if client.ID.IsZero() {
		client.ID = primitive.NewObjectID()
	}
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, client)
	return err
}

func (r *ClientRepositoryImpl) Get(ctx context.Context, id string) (*Client, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var client Client
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepositoryImpl) List(ctx context.Context, limit, offset int64) ([]Client, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var clients []Client
	if err = cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}
