package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok, "bare context carries no transaction")

	assert.Equal(t, ctx, WithTx(ctx, nil), "nil transaction is a no-op")
}

func TestRunnerCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE visitors`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = NewRunner(db).RunInTx(context.Background(), func(ctx context.Context) error {
		sqlTx, ok := From(ctx)
		require.True(t, ok, "fn context carries the transaction")
		_, err := sqlTx.ExecContext(ctx, "UPDATE visitors SET name = 'x' WHERE id = 1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = NewRunner(db).RunInTx(context.Background(), func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
