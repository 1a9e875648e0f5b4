package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_SQLiteDialect(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if name := DialectName(conn); name != DialectSQLite {
		t.Fatalf("expected dialect %q, got %q", DialectSQLite, name)
	}
	if !IsSQLite(conn) {
		t.Fatal("expected IsSQLite to report true for a file path DSN")
	}

	sqlDB, errUnwrap := conn.DB()
	if errUnwrap != nil {
		t.Fatalf("unwrap sql db: %v", errUnwrap)
	}
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("expected sqlite pool capped at 1 connection, got %d", got)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open("   "); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	for i := 0; i < 2; i++ {
		if errMigrate := Migrate(conn); errMigrate != nil {
			t.Fatalf("migrate round %d: %v", i+1, errMigrate)
		}
	}
}

func TestBuildSQLiteDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"tally.db", "file:tally.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"},
		{"file:tally.db?cache=shared", "file:tally.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"},
	}
	for _, tc := range cases {
		if got := buildSQLiteDSN(tc.in); got != tc.want {
			t.Fatalf("buildSQLiteDSN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
