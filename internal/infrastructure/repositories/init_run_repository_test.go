package repositories_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobharvest/dbinit/internal/core/domain/initrun"
	"github.com/jobharvest/dbinit/internal/core/ports"
	"github.com/jobharvest/dbinit/internal/infrastructure/db"
	"github.com/jobharvest/dbinit/internal/infrastructure/repositories"
)

func newMockInitRunRepo(t *testing.T) (ports.InitRunRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	logger, _ := logrustest.NewNullLogger()
	database := &db.Database{DB: sqlx.NewDb(mockDB, "sqlmock")}
	return repositories.NewInitRunRepository(database, logger), mock
}

func TestInitRunCreateAndFinish(t *testing.T) {
	repo, mock := newMockInitRunRepo(t)
	run := initrun.New()

	mock.ExpectExec(`INSERT INTO init_runs`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), run))

	run.Status = initrun.StatusSucceeded
	mock.ExpectExec(`UPDATE init_runs`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Finish(context.Background(), run))

	require.NotNil(t, run.FinishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitRunFinishMissingRow(t *testing.T) {
	repo, mock := newMockInitRunRepo(t)
	run := initrun.New()
	run.Status = initrun.StatusFailed

	mock.ExpectExec(`UPDATE init_runs`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Finish(context.Background(), run)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitRunLatest(t *testing.T) {
	repo, mock := newMockInitRunRepo(t)

	id := uuid.New()
	startedAt := time.Now().UTC().Add(-time.Minute)
	rows := sqlmock.NewRows([]string{"id", "status", "detail", "started_at", "finished_at"}).
		AddRow(id.String(), "succeeded", nil, startedAt, nil)
	mock.ExpectQuery(`SELECT id, status, detail, started_at, finished_at`).
		WillReturnRows(rows)

	run, err := repo.Latest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, id, run.ID)
	assert.Equal(t, initrun.StatusSucceeded, run.Status)
	assert.Nil(t, run.Detail)
	assert.Nil(t, run.FinishedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInitRunLatestEmptyTable(t *testing.T) {
	repo, mock := newMockInitRunRepo(t)

	mock.ExpectQuery(`SELECT id, status, detail, started_at, finished_at`).
		WillReturnError(sql.ErrNoRows)

	run, err := repo.Latest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run)
	require.NoError(t, mock.ExpectationsWereMet())
}
