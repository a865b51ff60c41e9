package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	mysqlinfra "brewline/internal/infrastructure/mysql"
)

// SetupTestDB connects to the integration test database and skips the
// test when it is unreachable. Expects a MySQL instance on
// localhost:3306 with a database named 'brewline_test'.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/brewline_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the embedded migrations so tests run against
// the same schema the server does.
func SetupTestTables(t *testing.T, db *sql.DB) {
	if err := mysqlinfra.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
}

// CleanupTestDB deletes rows in child-first order to satisfy foreign keys.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"queue_entries", "order_items", "orders", "menu_items", "shops", "users"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
