// Package questions holds the questions collection adapter. All mutations are
// single-document atomic Mongo updates; the idempotence of upvoting and the
// no-op detection of hide/unhide both come from ModifiedCount.
package questions

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/askfloor/backend/internal/models"
)

// Repository is the questions collection adapter.
type Repository struct {
	c *mongo.Collection
}

// NewRepository creates a questions repository on the "questions" collection.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{c: db.Collection("questions")}
}

// ListBySession returns all questions belonging to a session, unordered.
// Ranking happens above the store.
func (r *Repository) ListBySession(ctx context.Context, sessionID string) ([]models.Question, error) {
	cursor, err := r.c.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Question
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return out, nil
}

// Insert persists a new question.
func (r *Repository) Insert(ctx context.Context, q *models.Question) error {
	if _, err := r.c.InsertOne(ctx, q); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	return nil
}

// AddUpvote adds voterID to the question's upvote set with an atomic
// $addToSet. Returns true iff the voter was newly added; a repeat vote
// modifies nothing and returns false.
func (r *Repository) AddUpvote(ctx context.Context, questionID, voterID string) (bool, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$addToSet": bson.M{"upvotes": voterID}},
	)
	if err != nil {
		return false, fmt.Errorf("upvote question: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// SetHidden sets the hidden flag. Returns true iff the value changed.
func (r *Repository) SetHidden(ctx context.Context, questionID string, hidden bool) (bool, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": questionID},
		bson.M{"$set": bson.M{"hidden": hidden}},
	)
	if err != nil {
		return false, fmt.Errorf("set hidden: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// DeleteBySession removes all questions belonging to a session and returns
// the number removed. Used only by the session delete cascade.
func (r *Repository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.c.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, fmt.Errorf("delete questions: %w", err)
	}
	return res.DeletedCount, nil
}
