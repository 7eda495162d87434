package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/shipment-dashboard/internal/core/domain"
	"github.com/99minutos/shipment-dashboard/internal/core/ports"
)

// ChangeFeed implements ports.ChangeFeed with a change stream on the
// shipments collection. It only sees changes committed after Run starts.
type ChangeFeed struct {
	col *mongo.Collection
	log zerolog.Logger
}

func NewChangeFeed(db *mongo.Database, log zerolog.Logger) *ChangeFeed {
	return &ChangeFeed{col: db.Collection(collectionShipments), log: log}
}

type changeDocument struct {
	OperationType string        `bson:"operationType"`
	FullDocument  bson.RawValue `bson:"fullDocument"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
}

// Run watches the collection and hands every change to handle in commit
// order. It returns nil when ctx is cancelled.
func (f *ChangeFeed) Run(ctx context.Context, handle func(ports.ChangeEvent)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := f.col.Watch(ctx, pipeline, opts)
	if err != nil {
		return persistenceErr("watch shipments", err)
	}
	defer stream.Close(context.Background())

	f.log.Info().Str("collection", collectionShipments).Msg("change feed subscribed")

	for stream.Next(ctx) {
		var doc changeDocument
		if err := stream.Decode(&doc); err != nil {
			f.log.Warn().Err(err).Msg("skipping undecodable change event")
			continue
		}
		ev, err := toChangeEvent(doc)
		if err != nil {
			f.log.Warn().Err(err).Str("operation", doc.OperationType).Str("shipment_id", doc.DocumentKey.ID).Msg("skipping change event")
			continue
		}
		handle(ev)
	}

	if err := stream.Err(); err != nil && !errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return persistenceErr("change stream", err)
	}
	return nil
}

// toChangeEvent maps a change stream document to a feed event. Replace is an
// update. An update whose document is gone by lookup time is dropped; the
// delete that follows it carries the removal.
func toChangeEvent(doc changeDocument) (ports.ChangeEvent, error) {
	switch doc.OperationType {
	case "delete":
		return ports.ChangeEvent{Type: domain.ChangeDelete, Record: ports.ShipmentRecord{ID: doc.DocumentKey.ID}}, nil

	case "insert", "update", "replace":
		if doc.FullDocument.Type != bsontype.EmbeddedDocument {
			return ports.ChangeEvent{}, fmt.Errorf("%s of %s: %w: no full document", doc.OperationType, doc.DocumentKey.ID, domain.ErrTransform)
		}
		var rec ports.ShipmentRecord
		if err := doc.FullDocument.Unmarshal(&rec); err != nil {
			return ports.ChangeEvent{}, fmt.Errorf("%s of %s: %w: %w", doc.OperationType, doc.DocumentKey.ID, domain.ErrTransform, err)
		}
		typ := domain.ChangeUpdate
		if doc.OperationType == "insert" {
			typ = domain.ChangeInsert
		}
		return ports.ChangeEvent{Type: typ, Record: rec}, nil
	}
	return ports.ChangeEvent{}, fmt.Errorf("%w: unsupported operation %q", domain.ErrTransform, doc.OperationType)
}
