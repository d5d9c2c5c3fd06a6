package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const alterUsername = "ALTER TABLE `users` MODIFY `username` VARCHAR\\(64\\) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL"

func mockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	return db, mock
}

func TestPinUsernameCollation(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectExec(alterUsername).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := PinUsernameCollation(context.Background(), db); err != nil {
		t.Fatalf("PinUsernameCollation() unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestPinUsernameCollationError(t *testing.T) {
	db, mock := mockDB(t)
	mock.ExpectExec(alterUsername).WillReturnError(errors.New("access denied"))

	if err := PinUsernameCollation(context.Background(), db); err == nil {
		t.Fatal("PinUsernameCollation() expected error")
	}
}
