package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

type sessionDoc struct {
	Token     string `bson:"token"`
	ExpiresAt int64  `bson:"expiresAt"`
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Email    string             `bson:"email"`
	Password string             `bson:"password"`
	Sessions []sessionDoc       `bson:"sessions"`
}

func (d userDoc) toModel() *models.User {
	u := &models.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
	}
	for _, s := range d.Sessions {
		u.Sessions = append(u.Sessions, models.Session{Token: s.Token, ExpiresAt: s.ExpiresAt})
	}
	return u
}

func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage/mongo/CreateUser"

	doc := userDoc{
		Email:    user.Email,
		Password: user.PasswordHash,
		// never nil, $push needs an array
		Sessions: make([]sessionDoc, 0, len(user.Sessions)),
	}
	for _, sess := range user.Sessions {
		doc.Sessions = append(doc.Sessions, sessionDoc{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
	}

	res, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: email %s already exists: %w", op, user.Email, storage.ErrConflict)
		}
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}
	doc.ID = oid

	return doc.toModel(), nil
}

func (s *Storage) UserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	oid, err := objectID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.findUser(ctx, op, bson.D{{Key: "_id", Value: oid}})
}

func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "storage/mongo/UserByEmail", bson.D{{Key: "email", Value: email}})
}

func (s *Storage) findUser(ctx context.Context, op string, filter bson.D) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toModel(), nil
}

func (s *Storage) AppendSession(ctx context.Context, userID string, session models.Session) error {
	const op = "storage/mongo/AppendSession"

	oid, err := objectID(userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.users.UpdateByID(ctx, oid, bson.D{
		{Key: "$push", Value: bson.D{{Key: "sessions", Value: sessionDoc{
			Token:     session.Token,
			ExpiresAt: session.ExpiresAt,
		}}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) RemoveSession(ctx context.Context, userID, token string) error {
	const op = "storage/mongo/RemoveSession"

	oid, err := objectID(userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.users.UpdateByID(ctx, oid, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "sessions", Value: bson.D{{Key: "token", Value: token}}}}},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
