// README: DB-backed user store tests. Set VECTURO_TEST_DSN to run them.
package user

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestUpsertCreatesAndUpdates(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	u := &User{
		UID:         "u1",
		Email:       "u1@example.edu",
		FullName:    "First Last",
		PhoneNumber: "555-0001",
		University:  "Example University",
	}
	if err := store.Upsert(ctx, u); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != u.Email || got.PhoneNumber != u.PhoneNumber || got.University != u.University {
		t.Errorf("stored profile = %+v, want fields from %+v", got, u)
	}
	if got.Rating != 5.0 || got.RidesCompleted != 0 {
		t.Errorf("new profile rating=%v rides=%d, want defaults 5.0/0", got.Rating, got.RidesCompleted)
	}

	// second sign-in refreshes contact details but an empty university
	// must not erase the stored one
	u.PhoneNumber = "555-0002"
	u.University = ""
	if err := store.Upsert(ctx, u); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, err = store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.PhoneNumber != "555-0002" {
		t.Errorf("phone = %s, want refreshed 555-0002", got.PhoneNumber)
	}
	if got.University != "Example University" {
		t.Errorf("university = %q, want the previously stored value", got.University)
	}
}

func TestGetMissingProfile(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	if _, err := store.Get(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("VECTURO_TEST_DSN")
	if dsn == "" {
		t.Skip("VECTURO_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE rides, users"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	return NewStore(db)
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	path := filepath.Join(root, "migrations", "0001_init.sql")
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
