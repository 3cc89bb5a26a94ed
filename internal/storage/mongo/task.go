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

type taskDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	ListID    primitive.ObjectID `bson:"_listId"`
	Completed bool               `bson:"completed"`
}

func (d taskDoc) toModel() models.Task {
	return models.Task{ID: d.ID.Hex(), Title: d.Title, ListID: d.ListID.Hex(), Completed: d.Completed}
}

func taskInList(id, listID string) (bson.D, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	lid, err := objectID(listID)
	if err != nil {
		return nil, err
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "_listId", Value: lid}}, nil
}

func (s *Storage) TasksByList(ctx context.Context, listID string) ([]models.Task, error) {
	const op = "storage/mongo/TasksByList"

	out := make([]models.Task, 0)
	lid, err := objectID(listID)
	if err != nil {
		return out, nil
	}

	cur, err := s.tasks.Find(ctx, bson.D{{Key: "_listId", Value: lid}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc taskDoc
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

func (s *Storage) CreateTask(ctx context.Context, task models.Task) (*models.Task, error) {
	const op = "storage/mongo/CreateTask"

	lid, err := objectID(task.ListID)
	if err != nil {
		return nil, fmt.Errorf("%s: list: %w", op, err)
	}

	doc := taskDoc{Title: task.Title, ListID: lid, Completed: task.Completed}
	res, err := s.tasks.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}
	doc.ID = oid

	t := doc.toModel()
	return &t, nil
}

func (s *Storage) UpdateTask(ctx context.Context, id, listID string, patch models.TaskPatch) error {
	const op = "storage/mongo/UpdateTask"

	filter, err := taskInList(id, listID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	set := bson.D{}
	if patch.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *patch.Title})
	}
	if patch.Completed != nil {
		set = append(set, bson.E{Key: "completed", Value: *patch.Completed})
	}

	if len(set) == 0 {
		n, err := s.tasks.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("%s: count: %w", op, err)
		}
		if n == 0 {
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil
	}

	res, err := s.tasks.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

func (s *Storage) DeleteTask(ctx context.Context, id, listID string) (*models.Task, error) {
	const op = "storage/mongo/DeleteTask"

	filter, err := taskInList(id, listID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc taskDoc
	if err := s.tasks.FindOneAndDelete(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t := doc.toModel()
	return &t, nil
}

func (s *Storage) DeleteTasksByList(ctx context.Context, listID string) (int64, error) {
	const op = "storage/mongo/DeleteTasksByList"

	lid, err := objectID(listID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.tasks.DeleteMany(ctx, bson.D{{Key: "_listId", Value: lid}})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res.DeletedCount, nil
}
