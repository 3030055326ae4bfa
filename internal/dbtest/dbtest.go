// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/neubistro/bistro/app/models"
	"github.com/neubistro/bistro/pkg/database"
)

var seq atomic.Int64

// New returns a migrated sqlite database private to t. The pool is held to a
// single connection so concurrent callers queue instead of failing with
// SQLITE_BUSY.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderLineItem{},
	))
	return db
}

// Menu inserts an available item at price and returns it.
func Menu(t testing.TB, db *gorm.DB, name, price string) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		Name:        name,
		Price:       mustDecimal(t, price),
		Category:    "Test",
		IsAvailable: true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// User inserts a user with an unusable password hash.
func User(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", Name: "Test"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustDecimal(t testing.TB, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
