package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count == 0 {
			t.Fatal("expected applied migrations recorded")
		}

		for _, table := range []string{"candidates", "playlists", "search_history"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			if err != nil {
				t.Errorf("expected table %s to exist: %v", table, err)
			}
		}

		// Running again is a no-op
		if err := RunMigrations(db); err != nil {
			t.Fatalf("rerunning migrations should be a no-op: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback: %v", err)
		}

		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='candidates'").Scan(&name)
		if err == nil {
			t.Error("expected candidates table dropped after rollback")
		}
	})
}
