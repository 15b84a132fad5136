package repository

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/avestra/bank-analytics/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testDB struct {
	*pg.DB
	rawDB *gorm.DB
}

func setupTestDB(t *testing.T) *testDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&CustomerEntity{},
		&BranchEntity{},
		&AccountEntity{},
		&TransactionEntity{},
		&DailyBalanceEntity{},
		&DateDimEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return &testDB{
		DB:    pgDB,
		rawDB: db,
	}
}

// seedAccount inserts the customer/branch/account chain most tests need.
func seedAccount(t *testing.T, db *testDB, id int64) *AccountEntity {
	t.Helper()

	customer := &CustomerEntity{FullName: "Test Customer", Email: uniqueEmail(id)}
	require.NoError(t, db.rawDB.Create(customer).Error)

	branch := &BranchEntity{Name: "Test Branch", Code: uniqueCode(id)}
	require.NoError(t, db.rawDB.Create(branch).Error)

	account := &AccountEntity{
		ID:         id,
		CustomerID: customer.ID,
		BranchID:   branch.ID,
		Number:     uniqueNumber(id),
		Type:       "CHECKING",
		Active:     true,
	}
	require.NoError(t, db.rawDB.Create(account).Error)
	return account
}

func uniqueEmail(id int64) string {
	return fmt.Sprintf("customer%d@example.com", id)
}

func uniqueCode(id int64) string {
	return fmt.Sprintf("BR-%04d", id)
}

func uniqueNumber(id int64) string {
	return fmt.Sprintf("ACC-%06d", id)
}
