package main

import (
	"io/fs"
	"testing"

	"bookcatalog/db"

	"github.com/pressly/goose/v3"
)

func TestCollectMigrations_ParsesEmbeddedMigrations(t *testing.T) {
	goose.SetBaseFS(db.Migrations)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	migrations, err := goose.CollectMigrations(db.MigrationsDir, 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}

	files, err := fs.Glob(db.Migrations, db.MigrationsDir+"/*.sql")
	if err != nil {
		t.Fatalf("glob embedded migrations: %v", err)
	}
	if len(migrations) != len(files) {
		t.Fatalf("expected %d migrations, got %d", len(files), len(migrations))
	}
}
