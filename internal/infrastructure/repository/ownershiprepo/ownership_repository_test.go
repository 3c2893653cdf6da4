package ownershiprepo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/seoan1210/seoan-server/internal/domain"
	"github.com/seoan1210/seoan-server/internal/utils/platformerrors"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}
	return NewRepository(db), mock
}

func TestTransfer_UpdatesAllTablesInOneTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "conversations" SET`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "documents" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "suggestions" SET`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := repo.Transfer(context.Background(), domain.GuestOwner("guest-1"), domain.RegisteredOwner("user-1"))
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestTransfer_RollsBackWhenAnyUpdateFails(t *testing.T) {
	repo, mock := newMockRepository(t)

	// The second table fails mid-transaction; nothing may stay reassigned.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "conversations" SET`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE "documents" SET`).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.Transfer(context.Background(), domain.GuestOwner("guest-1"), domain.RegisteredOwner("user-1"))
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeDatabaseError) {
		t.Fatalf("error = %v, want database error", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
