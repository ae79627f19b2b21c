package sessions

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/askfloor/backend/internal/models"
)

// Repository is the sessions collection adapter. It is the only code aware of
// the raw session document shape; everything above it works with
// models.Session.
type Repository struct {
	c *mongo.Collection
}

// NewRepository creates a sessions repository on the "sessions" collection.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{c: db.Collection("sessions")}
}

// FindByID loads a session by id. Returns ErrSessionNotFound when absent.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByIDWithPassword loads a session matching both id and admin password.
// A wrong password behaves exactly like a missing session.
func (r *Repository) FindByIDWithPassword(ctx context.Context, id, password string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"_id": id, "admin_password": password})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*models.Session, error) {
	var s models.Session
	if err := r.c.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &s, nil
}

// List returns sessions matching the accepting/visible filters, ordered by
// name ascending.
func (r *Repository) List(ctx context.Context, accepting, visible bool) ([]models.Session, error) {
	filter := bson.M{
		"is_accepting_questions": accepting,
		"is_visible":             visible,
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Session
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return out, nil
}

// Insert persists a new session. The session id is the _id, so inserting a
// taken id fails with ErrSessionExists.
func (r *Repository) Insert(ctx context.Context, s *models.Session) error {
	if _, err := r.c.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSessionExists
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SetAcceptingQuestions flips the accepting flag. Returns true iff a document
// was modified (false when the flag already held the target value).
func (r *Repository) SetAcceptingQuestions(ctx context.Context, id string, accepting bool) (bool, error) {
	res, err := r.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_accepting_questions": accepting}},
	)
	if err != nil {
		return false, fmt.Errorf("update session: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes the session document. Returns true iff a document was
// deleted.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return res.DeletedCount > 0, nil
}
