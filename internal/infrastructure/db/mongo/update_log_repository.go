package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
)

const collectionUpdates = "shipment_updates"

var _ ports.UpdateLog = (*UpdateLogRepository)(nil)

// UpdateLogRepository implements ports.UpdateLog. Entries are append-only.
type UpdateLogRepository struct {
	col *mongo.Collection
}

func NewUpdateLogRepository(db *mongo.Database) *UpdateLogRepository {
	return &UpdateLogRepository{col: db.Collection(collectionUpdates)}
}

// Append persists one location history entry.
func (r *UpdateLogRepository) Append(ctx context.Context, u domain.LocationUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, updateDocument(u)); err != nil {
		return persistenceErr("append shipment update "+u.ShipmentID, err)
	}
	return nil
}

// EnsureIndexes supports history lookups per shipment in chronological order.
func (r *UpdateLogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "shipment_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func updateDocument(u domain.LocationUpdate) bson.M {
	loc := bson.M{
		"lat":  u.Location.Lat,
		"lng":  u.Location.Lng,
		"name": u.Location.Name,
	}
	if u.Location.Timestamp != nil {
		loc["timestamp"] = u.Location.Timestamp.UTC()
	}
	return bson.M{
		"_id":         u.ID,
		"shipment_id": u.ShipmentID,
		"location":    loc,
		"status":      string(u.Status),
		"notes":       u.Notes,
		"created_at":  u.CreatedAt.UTC(),
	}
}
