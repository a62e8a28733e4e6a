package postgresqltest

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/atikes/hr-backend-go/internal/pkg/database"
)

// TestDatabaseSetup holds a migrated connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 5, MinConns: 1})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	setup := &TestDatabaseSetup{DB: db}
	if err := setup.TruncateAllTables(ctx); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
	return setup
}

// TruncateAllTables removes every row written by the repositories.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tables := []string{
		"payroll_lines",
		"payroll_runs",
		"compensation_profiles",
		"holidays",
		"leave_approval_config",
		"leave_requests",
		"attendance_sessions",
		"employees",
	}
	for _, table := range tables {
		if _, err := t.DB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// InsertEmployee adds a directory row. The directory is owned by another
// system, so the repositories never write it.
func (t *TestDatabaseSetup) InsertEmployee(ctx context.Context, id, code, userID string, managerID *string) error {
	_, err := t.DB.Exec(ctx, `
		INSERT INTO employees (id, code, full_name, user_id, manager_id, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
	`, id, code, "Employee "+code, userID, managerID)
	return err
}
