package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
)

const collectionShipments = "shipments"

// ShipmentRepository implements ports.ShipmentRepository on the shipments
// collection. Documents are keyed by the shipment id.
type ShipmentRepository struct {
	col *mongo.Collection
	log zerolog.Logger
}

func NewShipmentRepository(db *mongo.Database, log zerolog.Logger) *ShipmentRepository {
	return &ShipmentRepository{col: db.Collection(collectionShipments), log: log}
}

// FetchAll returns every shipment, newest first. Documents that fail to
// decode are skipped so one corrupt record never hides the rest.
func (r *ShipmentRepository) FetchAll(ctx context.Context) ([]ports.ShipmentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, persistenceErr("fetch shipments", err)
	}
	defer cur.Close(ctx)

	var out []ports.ShipmentRecord
	for cur.Next(ctx) {
		var rec ports.ShipmentRecord
		if err := cur.Decode(&rec); err != nil {
			r.log.Warn().Err(err).Str("raw_id", rawID(cur.Current)).Msg("skipping undecodable shipment document")
			continue
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, persistenceErr("fetch shipments", err)
	}
	return out, nil
}

// Insert stores rec and returns it as written.
func (r *ShipmentRepository) Insert(ctx context.Context, rec ports.ShipmentRecord) (ports.ShipmentRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ports.ShipmentRecord{}, persistenceErr("insert shipment "+rec.ID+": duplicate id", err)
		}
		return ports.ShipmentRecord{}, persistenceErr("insert shipment "+rec.ID, err)
	}
	return rec, nil
}

// Update applies the non-nil fields of patch with $set.
func (r *ShipmentRepository) Update(ctx context.Context, id string, patch ports.ShipmentPatch) error {
	set := patchDocument(patch)
	if len(set) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return persistenceErr("update shipment "+id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update shipment %s: %w", id, domain.ErrShipmentNotFound)
	}
	return nil
}

func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return persistenceErr("delete shipment "+id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete shipment %s: %w", id, domain.ErrShipmentNotFound)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the shipments collection.
func (r *ShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "container_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func patchDocument(p ports.ShipmentPatch) bson.M {
	set := bson.M{}
	if p.Status != nil {
		set["status"] = *p.Status
	}
	if p.CurrentLocation != nil {
		set["current_location"] = p.CurrentLocation
	}
	if p.UpdatedAt != nil {
		set["updated_at"] = p.UpdatedAt.UTC()
	}
	return set
}

func rawID(doc bson.Raw) string {
	if v, err := doc.LookupErr("_id"); err == nil {
		if s, ok := v.StringValueOK(); ok {
			return s
		}
		return v.String()
	}
	return ""
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}
