package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/rryowa/taskmanager/internal/storage"
)

const (
	usersCollection = "users"
	listsCollection = "lists"
	tasksCollection = "tasks"
	defaultDBName   = "TaskManager"
)

// Storage is the MongoDB document store: users (with embedded sessions), lists and tasks.
type Storage struct {
	client *mongodriver.Client
	db     *mongodriver.Database
	users  *mongodriver.Collection
	lists  *mongodriver.Collection
	tasks  *mongodriver.Collection
}

var _ storage.Storage = (*Storage)(nil)

// New connects, pings the primary and makes sure the indexes exist.
func New(ctx context.Context, uri string) (*Storage, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))
	s := &Storage{
		client: cli,
		db:     db,
		users:  db.Collection(usersCollection),
		lists:  db.Collection(listsCollection),
		tasks:  db.Collection(tasksCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}

	return s, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureIndexes creates:
// - unique email on users;
// - sessions.token on users, so a session lookup does not scan every user;
// - owner keys on lists and tasks.
func (s *Storage) ensureIndexes(ctx context.Context) error {
	if _, err := s.users.Indexes().CreateMany(ctx, []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sessions.token", Value: 1}},
			Options: options.Index().SetName("sessions_token"),
		},
	}); err != nil {
		return fmt.Errorf("mongo ensure user indexes: %w", err)
	}

	if _, err := s.lists.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "_userId", Value: 1}},
		Options: options.Index().SetName("user_id"),
	}); err != nil {
		return fmt.Errorf("mongo ensure list indexes: %w", err)
	}

	if _, err := s.tasks.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "_listId", Value: 1}},
		Options: options.Index().SetName("list_id"),
	}); err != nil {
		return fmt.Errorf("mongo ensure task indexes: %w", err)
	}

	return nil
}

// databaseFromURI returns the database named in the URI path, or the default one.
func databaseFromURI(uri string) string {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil || cs.Database == "" {
		return defaultDBName
	}
	return cs.Database
}

// objectID parses a hex id; a malformed id means no such document.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, storage.ErrNotFound
	}
	return oid, nil
}
