package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocatorLocate(t *testing.T) {
	dir := t.TempDir()
	start := writeDoc(t, dir, "TA00 BckqqsJiDUI.xml")
	first := writeDoc(t, dir, "TA01 yVebIlvkOnU.xml")
	writeDoc(t, dir, "TA99 yVebIlvkOnU.xml")
	writeRaw(t, dir, "TA02 WH0nxmT9ekI.txt", "not annotations")
	writeDoc(t, dir, "short.xml")
	if err := os.Mkdir(filepath.Join(dir, "TA03 Lw2QhSL1j0w.xml"), 0o755); err != nil {
		t.Fatal(err)
	}

	loc := NewLocator(dir, ".xml")

	tests := []struct {
		id     string
		want   string
		wantOK bool
	}{
		{"BckqqsJiDUI", start, true},
		{"yVebIlvkOnU", first, true},
		{"WH0nxmT9ekI", "", false},
		{"Lw2QhSL1j0w", "", false},
		{"AAAAAAAAAAA", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := loc.Locate(tt.id)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Locate(%q) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLocatorMissingDirectory(t *testing.T) {
	loc := NewLocator(filepath.Join(t.TempDir(), "missing"), ".xml")

	if path, ok := loc.Locate("BckqqsJiDUI"); ok {
		t.Errorf("Locate() in missing dir = %q, want not found", path)
	}
	if files := loc.Files(); len(files) != 0 {
		t.Errorf("Files() in missing dir = %v, want none", files)
	}
}

func TestLocatorFiles(t *testing.T) {
	dir := t.TempDir()
	b := writeDoc(t, dir, "b ZZZZZZZZZZZ.xml")
	a := writeDoc(t, dir, "a AAAAAAAAAAA.xml")
	writeRaw(t, dir, "notes.txt", "")

	loc := NewLocator(dir, ".xml")
	if loc.Dir() != dir || loc.Ext() != ".xml" {
		t.Errorf("Dir/Ext = %q/%q", loc.Dir(), loc.Ext())
	}

	files := loc.Files()
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Errorf("Files() = %v, want [%s %s]", files, a, b)
	}
}
