package verificationRepo

import (
	"context"
	"fmt"
	"time"

	"roomhive/database"
	"roomhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoChallengeRepo implements ChallengeRepository using MongoDB.
type MongoChallengeRepo struct {
	coll *mongo.Collection
}

// NewMongoChallengeRepo creates a new ChallengeRepository backed by MongoDB.
func NewMongoChallengeRepo() ChallengeRepository {
	coll := database.MongoClient.Database("roomhive").Collection("phone_challenges")
	repo := &MongoChallengeRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the lookup index and a TTL index so Mongo reaps
// expired challenges on its own; DeleteExpired remains the in-request sweep.
func (r *MongoChallengeRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Replace deletes any pending challenge for the phone and inserts ch.
func (r *MongoChallengeRepo) Replace(ch *models.VerificationChallenge) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"phone": ch.Phone, "verified": false}); err != nil {
		return fmt.Errorf("failed to clear pending challenges for %s: %w", ch.Phone, err)
	}
	if _, err := r.coll.InsertOne(ctx, ch); err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}
	return nil
}

// FindActive returns the most recent unverified, unexpired challenge.
func (r *MongoChallengeRepo) FindActive(phone string, now time.Time) (*models.VerificationChallenge, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"phone":      phone,
		"verified":   false,
		"expires_at": bson.M{"$gt": now},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var ch models.VerificationChallenge
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&ch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch challenge for %s: %w", phone, err)
	}
	return &ch, nil
}

// FailAttempt performs the increment-and-compare as one conditional update so
// two racing verifies cannot both pass the attempt cap.
func (r *MongoChallengeRepo) FailAttempt(id string, maxAttempts int) (*models.VerificationChallenge, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "attempts": bson.M{"$lt": maxAttempts}}
	update := bson.M{"$inc": bson.M{"attempts": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var ch models.VerificationChallenge
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ch); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to record failed attempt on challenge %s: %w", id, err)
	}
	return &ch, nil
}

// MarkVerified flags the challenge as verified.
func (r *MongoChallengeRepo) MarkVerified(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return fmt.Errorf("failed to mark challenge %s verified: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("challenge with id %s not found", id)
	}
	return nil
}

// Delete removes a challenge by its ID.
func (r *MongoChallengeRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete challenge %s: %w", id, err)
	}
	return nil
}

// DeleteExpired removes challenges whose expiry has elapsed.
func (r *MongoChallengeRepo) DeleteExpired(now time.Time) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired challenges: %w", err)
	}
	return res.DeletedCount, nil
}
