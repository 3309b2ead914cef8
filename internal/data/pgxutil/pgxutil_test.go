package pgxutil

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	if f.commitErr != nil {
		return f.commitErr
	}
	f.rollbackErr = pgx.ErrTxClosed
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack = true
	return f.rollbackErr
}

func TestRunTx(t *testing.T) {
	errFn := errors.New("insert failed")
	errRollback := errors.New("connection reset")
	errCommit := errors.New("serialization failure")

	tests := []struct {
		name          string
		tx            *fakeTx
		fnErr         error
		wantErrs      []error
		wantCommitted bool
	}{
		{
			name:          "commit",
			tx:            &fakeTx{},
			wantCommitted: true,
		},
		{
			name:     "fn error rolls back",
			tx:       &fakeTx{},
			fnErr:    errFn,
			wantErrs: []error{errFn},
		},
		{
			name:     "rollback failure is joined",
			tx:       &fakeTx{rollbackErr: errRollback},
			fnErr:    errFn,
			wantErrs: []error{errFn, errRollback},
		},
		{
			name:     "closed tx on rollback is ignored",
			tx:       &fakeTx{rollbackErr: pgx.ErrTxClosed},
			fnErr:    errFn,
			wantErrs: []error{errFn},
		},
		{
			name:     "commit failure",
			tx:       &fakeTx{commitErr: errCommit, rollbackErr: pgx.ErrTxClosed},
			wantErrs: []error{errCommit},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runTx(context.Background(), tt.tx, func(*fakeTx) error { return tt.fnErr })

			assert.True(t, tt.tx.rolledBack)
			assert.Equal(t, tt.wantCommitted, tt.tx.committed)
			if len(tt.wantErrs) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestWithPgxConn_NilDB(t *testing.T) {
	err := WithPgxConn(context.Background(), nil, func(*pgx.Conn) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
