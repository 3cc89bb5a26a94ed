package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/rryowa/taskmanager/internal/migrations"
	"github.com/rryowa/taskmanager/internal/models"
	"github.com/rryowa/taskmanager/internal/storage"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION to run postgres integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "taskmanager",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/taskmanager?sslmode=disable", host, port.Port())
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return db.PingContext(ctx) == nil }, 30*time.Second, 200*time.Millisecond)
	require.NoError(t, migrations.RunMigrations(db, zap.NewNop().Sugar()))

	s := NewStorage(db)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	got, err := parseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = parseID("nonexistent-id")
	require.ErrorIs(t, err, storage.ErrNotFound)

	_, _, err = parseOwned(id.String(), "bad")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, models.User{
		Email:        "a@b.c",
		PasswordHash: "hash",
		Sessions:     []models.Session{{Token: "t0", ExpiresAt: 1}},
	})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, models.User{Email: "a@b.c", PasswordHash: "hash"})
	require.ErrorIs(t, err, storage.ErrConflict)

	require.NoError(t, s.AppendSession(ctx, u.ID, models.Session{Token: "t1", ExpiresAt: 2}))
	require.ErrorIs(t, s.AppendSession(ctx, uuid.NewString(), models.Session{Token: "x"}), storage.ErrNotFound)

	got, err := s.UserByEmail(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, []models.Session{{Token: "t0", ExpiresAt: 1}, {Token: "t1", ExpiresAt: 2}}, got.Sessions)

	require.NoError(t, s.RemoveSession(ctx, u.ID, "t0"))
	got, err = s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Session{{Token: "t1", ExpiresAt: 2}}, got.Sessions)

	list, err := s.CreateList(ctx, models.List{Title: "A", UserID: u.ID})
	require.NoError(t, err)

	title := "B"
	require.ErrorIs(t, s.UpdateList(ctx, list.ID, uuid.NewString(), models.ListPatch{Title: &title}), storage.ErrNotFound)
	require.NoError(t, s.UpdateList(ctx, list.ID, u.ID, models.ListPatch{Title: &title}))

	lists, err := s.ListsByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "B", lists[0].Title)

	task, err := s.CreateTask(ctx, models.Task{Title: "t", ListID: list.ID})
	require.NoError(t, err)
	done := true
	require.NoError(t, s.UpdateTask(ctx, task.ID, list.ID, models.TaskPatch{Completed: &done}))

	tasks, err := s.TasksByList(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)
	assert.Equal(t, "t", tasks[0].Title)

	_, err = s.DeleteList(ctx, list.ID, u.ID)
	require.NoError(t, err)
	n, err := s.DeleteTasksByList(ctx, list.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.DeleteTask(ctx, task.ID, list.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
