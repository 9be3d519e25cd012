package sources

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.txt")
	content := "https://a.test/page\n\n# kommentert ut\n  https://b.test/news  \n#https://c.test\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := []string{"https://a.test/page", "https://b.test/news"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Load = %v, want %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	got, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load = %v, want empty", got)
	}
}

func TestSaveDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.txt")
	in := []string{"https://b.test", "https://a.test", "https://b.test", "  ", ""}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := []string{"https://a.test", "https://b.test"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("roundtrip = %v, want %v", got, want)
	}
}
