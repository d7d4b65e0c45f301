package atlas

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testEntry(name string, seed int64) Entry {
	return Entry{
		Name:        name,
		Seed:        seed,
		Width:       64,
		Height:      64,
		Scale:       80,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
		Algorithm:   "perlin",
		Ramp:        "terrain",
		PNG:         []byte("fake png data"),
		CreatedAt:   time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
}

func TestWriter_New(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.atlas")

	metadata := Metadata{
		Name:        "Test Atlas",
		Description: "Test description",
		Version:     "1.0",
	}

	w, err := New(dbPath, metadata)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	// Verify database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("Database file was not created")
	}

	// Verify schema exists
	var count int
	err = w.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='textures'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected textures table to exist, got count=%d", count)
	}

	// Verify metadata was inserted
	err = w.db.QueryRow("SELECT COUNT(*) FROM metadata").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query metadata: %v", err)
	}
	if count == 0 {
		t.Error("Expected metadata to be inserted")
	}
}

func TestWriter_WriteTexture(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.atlas")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	if err := w.WriteTexture(testEntry("hills", 42)); err != nil {
		t.Fatalf("Failed to write texture: %v", err)
	}

	// Flush to ensure it's written
	if err := w.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	// Verify entry was written
	var count int
	err = w.db.QueryRow("SELECT COUNT(*) FROM textures").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query textures: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 texture, got %d", count)
	}

	var seed int64
	var png []byte
	err = w.db.QueryRow("SELECT seed, png FROM textures WHERE name = ?", "hills").Scan(&seed, &png)
	if err != nil {
		t.Fatalf("Failed to read texture: %v", err)
	}
	if seed != 42 {
		t.Errorf("Expected seed 42, got %d", seed)
	}
	if len(png) == 0 {
		t.Error("Expected PNG data to be stored")
	}
}

func TestWriter_BatchFlush(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.atlas")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	// Write one full batch; it should flush automatically
	for i := 0; i < DefaultBatchSize; i++ {
		e := testEntry(fmt.Sprintf("texture_%03d", i), int64(i))
		if err := w.WriteTexture(e); err != nil {
			t.Fatalf("Failed to write texture %d: %v", i, err)
		}
	}

	var count int
	err = w.db.QueryRow("SELECT COUNT(*) FROM textures").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query textures: %v", err)
	}
	if count != DefaultBatchSize {
		t.Errorf("Expected %d textures after auto-flush, got %d", DefaultBatchSize, count)
	}
}

func TestWriter_ReplacesExistingName(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.atlas")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	first := testEntry("hills", 1)
	second := testEntry("hills", 2)
	second.PNG = []byte("replacement png data")

	if err := w.WriteTexture(first); err != nil {
		t.Fatalf("Failed to write first entry: %v", err)
	}
	if err := w.WriteTexture(second); err != nil {
		t.Fatalf("Failed to write second entry: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}

	var count int
	if err := w.db.QueryRow("SELECT COUNT(*) FROM textures").Scan(&count); err != nil {
		t.Fatalf("Failed to query textures: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 texture after replacement, got %d", count)
	}

	var seed int64
	if err := w.db.QueryRow("SELECT seed FROM textures WHERE name = ?", "hills").Scan(&seed); err != nil {
		t.Fatalf("Failed to read texture: %v", err)
	}
	if seed != 2 {
		t.Errorf("Expected replacement seed 2, got %d", seed)
	}
}

func TestWriter_RejectsInvalidEntries(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.atlas")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	defer w.Close()

	unnamed := testEntry("", 1)
	if err := w.WriteTexture(unnamed); err == nil {
		t.Error("Expected error for empty entry name")
	}

	empty := testEntry("empty", 1)
	empty.PNG = nil
	if err := w.WriteTexture(empty); err == nil {
		t.Error("Expected error for empty PNG data")
	}
}

func TestWriter_CloseFlushesRemaining(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.atlas")

	w, err := New(dbPath, Metadata{Name: "Test"})
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}

	if err := w.WriteTexture(testEntry("pending", 7)); err != nil {
		t.Fatalf("Failed to write texture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	if _, err := r.Get("pending"); err != nil {
		t.Errorf("Entry written before Close not found: %v", err)
	}
}
