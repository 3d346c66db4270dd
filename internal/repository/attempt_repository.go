package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ithomeportal/unilink-energy/internal/models"
)

type attemptDocument struct {
	ID                         primitive.ObjectID `bson:"_id,omitempty"`
	models.VerificationAttempt `bson:",inline"`
}

// MongoAttemptRepository keeps the login audit log in the login_audit_logs collection.
type MongoAttemptRepository struct {
	collection *mongo.Collection
}

func NewAttemptRepository(db *mongo.Database) *MongoAttemptRepository {
	return &MongoAttemptRepository{
		collection: db.Collection("login_audit_logs"),
	}
}

// EnsureIndexes creates the lookup index used by FindLatestPending.
func (r *MongoAttemptRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "email", Value: 1},
			{Key: "loginStatus", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})
	return err
}

func (r *MongoAttemptRepository) Create(ctx context.Context, attempt *models.VerificationAttempt) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}

	doc := attemptDocument{
		ID:                  primitive.NewObjectID(),
		VerificationAttempt: *attempt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	attempt.ID = doc.ID.Hex()
	return nil
}

func (r *MongoAttemptRepository) FindLatestPending(ctx context.Context, email string) (*models.VerificationAttempt, error) {
	return r.findLatest(ctx, bson.M{
		"email":       email,
		"loginStatus": models.StatusPending,
	})
}

func (r *MongoAttemptRepository) FindLatestIssued(ctx context.Context, email string) (*models.VerificationAttempt, error) {
	return r.findLatest(ctx, bson.M{
		"email":       email,
		"loginStatus": bson.M{"$ne": models.StatusFailed},
	})
}

func (r *MongoAttemptRepository) findLatest(ctx context.Context, filter bson.M) (*models.VerificationAttempt, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var doc attemptDocument
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	attempt := doc.VerificationAttempt
	attempt.ID = doc.ID.Hex()
	return &attempt, nil
}

func (r *MongoAttemptRepository) UpdateStatus(ctx context.Context, id string, from, to models.AttemptStatus) error {
	if !models.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", models.ErrIllegalTransition, from, to)
	}
	return r.updatePending(ctx, id, from, bson.M{"loginStatus": to})
}

func (r *MongoAttemptRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, err
	}

	findOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc attemptDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"codeAttempts": 1}},
		findOptions,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return doc.Attempts, nil
}

func (r *MongoAttemptRepository) MarkVerified(ctx context.Context, id, sessionToken string, sessionExpiresAt time.Time) error {
	return r.updatePending(ctx, id, models.StatusPending, bson.M{
		"loginStatus":      models.StatusVerified,
		"sessionToken":     sessionToken,
		"sessionExpiresAt": sessionExpiresAt,
	})
}

func (r *MongoAttemptRepository) MarkNotificationSent(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"notificationSent": true},
	})
	return err
}

func (r *MongoAttemptRepository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx, bson.M{
		"loginStatus":   models.StatusPending,
		"codeExpiresAt": bson.M{"$lt": cutoff},
	}, bson.M{
		"$set": bson.M{"loginStatus": models.StatusExpired},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// updatePending applies set to id only while the row is still in status from.
func (r *MongoAttemptRepository) updatePending(ctx context.Context, id string, from models.AttemptStatus, set bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "loginStatus": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
