package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vertextarget/portal-gateway/internal/core/domain"
)

const (
	auditCollection = "dashboard_audit"
	maxAuditLimit   = 500
)

type auditDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Resource   string             `bson:"resource"`
	Action     string             `bson:"action"`
	ResourceID string             `bson:"resource_id"`
	ActorID    string             `bson:"actor_id"`
	ActorEmail string             `bson:"actor_email"`
	At         time.Time          `bson:"at"`
}

func (d auditDoc) toDomain() domain.AuditRecord {
	return domain.AuditRecord{
		Resource:   d.Resource,
		Action:     domain.AuditAction(d.Action),
		ResourceID: d.ResourceID,
		ActorID:    d.ActorID,
		ActorEmail: d.ActorEmail,
		At:         d.At,
	}
}

// AuditRepository stores admin mutations in the dashboard_audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

func (r *AuditRepository) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	doc := auditDoc{
		Resource:   rec.Resource,
		Action:     string(rec.Action),
		ResourceID: rec.ResourceID,
		ActorID:    rec.ActorID,
		ActorEmail: rec.ActorEmail,
		At:         rec.At.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	if limit <= 0 || limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find audit records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []auditDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode audit records: %w", err)
	}
	out := make([]domain.AuditRecord, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// EnsureIndexes creates the indexes used by Recent and per-resource lookups.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Ping checks the connection for readiness probes.
func (r *AuditRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}
