package comments

import (
	"context"
	"time"

	common_models "go-studio-crm/internal/common/models"
	"go-studio-crm/internal/database"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClientNotes is the pair of client fields this subsystem reads: the raw
// notes column and the lead the client was converted from (empty if none).
type ClientNotes struct {
	InternalNotes  string `bson:"internal_notes"`
	OriginalLeadID string `bson:"original_lead_id"`
}

// Store is the remote-store boundary for the comment subsystem. It is
// injected everywhere (never referenced as a singleton) so tests can swap in
// a fake. Reads may fail with permission errors; callers on the read path
// must degrade to empty data rather than propagate.
type Store interface {
	ListLeadActivities(ctx context.Context, leadID string) ([]LeadActivity, error)
	// AppendLeadActivity is the preferred write path: the store stamps id and
	// timestamp itself and touches the lead row in the same call.
	AppendLeadActivity(ctx context.Context, leadID, description string) (*LeadActivity, error)
	// InsertLeadActivity is the fallback when the append call fails: a plain
	// insert with caller-generated id and timestamp.
	InsertLeadActivity(ctx context.Context, leadID, description string, timestamp time.Time) (*LeadActivity, error)

	GetClientNotes(ctx context.Context, clientID string) (*ClientNotes, error)
	// ListConvertedClientIDs returns the ids of clients that carry an
	// original lead reference, for the periodic sync sweep.
	ListConvertedClientIDs(ctx context.Context) ([]string, error)
	// UpdateClientNotes overwrites the whole notes column. The store offers no
	// partial or merge semantics; merging happens client-side before calling.
	UpdateClientNotes(ctx context.Context, clientID, internalNotes string) error

	GetNote(ctx context.Context, entityType common_models.EntityType, entityID string) (*Note, error)
	UpdateNote(ctx context.Context, entityType common_models.EntityType, entityID, content string) error
}

// MongoStore implements Store against the leads, lead_activities, clients and
// entity_notes collections.
type MongoStore struct {
	leads      *mongo.Collection
	activities *mongo.Collection
	clients    *mongo.Collection
	notes      *mongo.Collection
}

func NewMongoStore(db *database.MongodbDB) Store {
	return &MongoStore{
		leads:      db.DB.Collection("leads"),
		activities: db.DB.Collection("lead_activities"),
		clients:    db.DB.Collection("clients"),
		notes:      db.DB.Collection("entity_notes"),
	}
}

func (s *MongoStore) ListLeadActivities(ctx context.Context, leadID string) ([]LeadActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "activity_timestamp", Value: -1}})
	cursor, err := s.activities.Find(ctx, bson.M{"lead_id": leadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []LeadActivity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func (s *MongoStore) AppendLeadActivity(ctx context.Context, leadID, description string) (*LeadActivity, error) {
	oid, err := primitive.ObjectIDFromHex(leadID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	// Touch the lead row first; a denied or missing lead fails the append and
	// sends the caller down the fallback insert path.
	res, err := s.leads.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"last_activity_at": now}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}

	activity := LeadActivity{
		ID:          primitive.NewObjectID().Hex(),
		LeadID:      leadID,
		Description: &description,
		Timestamp:   now,
	}
	if _, err := s.activities.InsertOne(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *MongoStore) InsertLeadActivity(ctx context.Context, leadID, description string, timestamp time.Time) (*LeadActivity, error) {
	activity := LeadActivity{
		ID:          uuid.NewString(),
		LeadID:      leadID,
		Description: &description,
		Timestamp:   timestamp,
	}
	if _, err := s.activities.InsertOne(ctx, activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (s *MongoStore) GetClientNotes(ctx context.Context, clientID string) (*ClientNotes, error) {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetProjection(bson.M{"internal_notes": 1, "original_lead_id": 1})
	var notes ClientNotes
	if err := s.clients.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&notes); err != nil {
		return nil, err
	}
	return &notes, nil
}

func (s *MongoStore) ListConvertedClientIDs(ctx context.Context) ([]string, error) {
	filter := bson.M{"original_lead_id": bson.M{"$nin": bson.A{nil, ""}}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := s.clients.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID.Hex())
	}
	return ids, nil
}

func (s *MongoStore) UpdateClientNotes(ctx context.Context, clientID, internalNotes string) error {
	oid, err := primitive.ObjectIDFromHex(clientID)
	if err != nil {
		return err
	}

	res, err := s.clients.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{
			"internal_notes": internalNotes,
			"updated_at":     time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoStore) GetNote(ctx context.Context, entityType common_models.EntityType, entityID string) (*Note, error) {
	filter := bson.M{"entity_id": entityID, "entity_type": entityType}
	var note Note
	err := s.notes.FindOne(ctx, filter).Decode(&note)
	if err == mongo.ErrNoDocuments {
		return &Note{EntityID: entityID, EntityType: entityType}, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *MongoStore) UpdateNote(ctx context.Context, entityType common_models.EntityType, entityID, content string) error {
	filter := bson.M{"entity_id": entityID, "entity_type": entityType}
	update := bson.M{"$set": bson.M{
		"content":      content,
		"last_updated": time.Now().UTC(),
	}}
	opts := options.Update().SetUpsert(true)
	_, err := s.notes.UpdateOne(ctx, filter, update, opts)
	return err
}
