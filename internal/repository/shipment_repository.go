package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ithomeportal/unilink-energy/internal/models"
)

// MongoShipmentRepository reads shipments from the shipments collection,
// a document copy of the budget report table.
type MongoShipmentRepository struct {
	collection *mongo.Collection
}

func NewShipmentRepository(db *mongo.Database) *MongoShipmentRepository {
	return &MongoShipmentRepository{
		collection: db.Collection("shipments"),
	}
}

func (r *MongoShipmentRepository) ListShipments(ctx context.Context, since time.Time) ([]models.ShipmentRecord, error) {
	present := bson.M{"$exists": true, "$ne": nil}
	filter := bson.M{
		"orderDate":        bson.M{"$gte": since},
		"originState":      bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
		"destinationState": bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
		"originLat":        present,
		"originLon":        present,
		"destLat":          present,
		"destLon":          present,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "orderDate", Value: -1}}).
		SetProjection(bson.M{
			"_id":              0,
			"orderDate":        1,
			"originState":      1,
			"destinationState": 1,
			"originLat":        1,
			"originLon":        1,
			"destLat":          1,
			"destLon":          1,
			"miles":            1,
		})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.ShipmentRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
