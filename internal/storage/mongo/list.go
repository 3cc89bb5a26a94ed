package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

type listDoc struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Title  string             `bson:"title"`
	UserID primitive.ObjectID `bson:"_userId"`
}

func (d listDoc) toModel() models.List {
	return models.List{ID: d.ID.Hex(), Title: d.Title, UserID: d.UserID.Hex()}
}

// ownedList builds the {_id, _userId} filter every list mutation is scoped by.
func ownedList(id, userID string) (bson.D, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	uid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "_userId", Value: uid}}, nil
}

func (s *Storage) ListsByUser(ctx context.Context, userID string) ([]models.List, error) {
	const op = "storage/mongo/ListsByUser"

	out := make([]models.List, 0)
	uid, err := objectID(userID)
	if err != nil {
		return out, nil
	}

	cur, err := s.lists.Find(ctx, bson.D{{Key: "_userId", Value: uid}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc listDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		out = append(out, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return out, nil
}

func (s *Storage) ListByIDAndUser(ctx context.Context, id, userID string) (*models.List, error) {
	const op = "storage/mongo/ListByIDAndUser"

	filter, err := ownedList(id, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc listDoc
	if err := s.lists.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l := doc.toModel()
	return &l, nil
}

func (s *Storage) CreateList(ctx context.Context, list models.List) (*models.List, error) {
	const op = "storage/mongo/CreateList"

	uid, err := objectID(list.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: owner: %w", op, err)
	}

	doc := listDoc{Title: list.Title, UserID: uid}
	res, err := s.lists.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}
	doc.ID = oid

	l := doc.toModel()
	return &l, nil
}

func (s *Storage) UpdateList(ctx context.Context, id, userID string, patch models.ListPatch) error {
	const op = "storage/mongo/UpdateList"

	filter, err := ownedList(id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	set := bson.D{}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if len(set) == 0 {
		if _, err := s.ListByIDAndUser(ctx, id, userID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	res, err := s.lists.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteList(ctx context.Context, id, userID string) (*models.List, error) {
	const op = "storage/mongo/DeleteList"

	filter, err := ownedList(id, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc listDoc
	if err := s.lists.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	l := doc.toModel()
	return &l, nil
}
