package fsutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSystem_ReadDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.fa", "a.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	names, err := OSFileSystem{}.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a.csv" || names[1] != "b.fa" {
		t.Errorf("ReadDir = %v, want [a.csv b.fa]", names)
	}
}

func TestOSFileSystem_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acc.csv")
	fs := OSFileSystem{}

	for _, line := range []string{"one\n", "two\n"} {
		w, err := fs.Append(path)
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if _, err := io.WriteString(w, line); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "one\ntwo\n" {
		t.Errorf("got %q", data)
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("/data/test.fa", []byte(">s\nACGT\n"))

	data, err := mfs.ReadFile("/data/test.fa")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != ">s\nACGT\n" {
		t.Errorf("got %q", data)
	}

	f, err := mfs.Open("/data/test.fa")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	read, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(read) != ">s\nACGT\n" {
		t.Errorf("Open content = %q", read)
	}
}

func TestMemoryFileSystem_ReadDir(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("run/b.csv", nil)
	mfs.WriteFile("run/a.fa", nil)
	mfs.WriteFile("run/nested/c.csv", nil)
	mfs.WriteFile("top.csv", nil)

	names, err := mfs.ReadDir("run")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(names) != 2 || names[0] != "a.fa" || names[1] != "b.csv" {
		t.Errorf("ReadDir(run) = %v", names)
	}

	root, err := mfs.ReadDir(".")
	if err != nil {
		t.Fatalf("ReadDir(.) failed: %v", err)
	}
	if len(root) != 1 || root[0] != "top.csv" {
		t.Errorf("ReadDir(.) = %v", root)
	}

	if _, err := mfs.ReadDir("missing"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestMemoryFileSystem_CreateTruncatesAppendExtends(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("out.csv", []byte("old\n"))

	w, _ := mfs.Append("out.csv")
	_, _ = io.WriteString(w, "new\n")
	_ = w.Close()
	if got := mfs.Contents("out.csv"); got != "old\nnew\n" {
		t.Errorf("after append: %q", got)
	}

	w, _ = mfs.Create("out.csv")
	_, _ = io.WriteString(w, "fresh\n")
	_ = w.Close()
	if got := mfs.Contents("out.csv"); got != "fresh\n" {
		t.Errorf("after create: %q", got)
	}

	if _, err := w.Write([]byte("late")); err == nil {
		t.Error("expected write after close to fail")
	}
}

func TestMemoryFileSystem_Stat(t *testing.T) {
	mfs := NewMemoryFileSystem()
	mfs.WriteFile("d/x.fa", []byte("12345"))

	info, err := mfs.Stat("d/x.fa")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 5 || info.IsDir() {
		t.Errorf("unexpected info: size=%d dir=%v", info.Size(), info.IsDir())
	}

	dirInfo, err := mfs.Stat("d")
	if err != nil || !dirInfo.IsDir() {
		t.Errorf("expected d to be a directory, err=%v", err)
	}

	if _, err := mfs.Stat("nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestTrimExt(t *testing.T) {
	tests := []struct {
		name, ext, want string
		ok              bool
	}{
		{"a.csv", ".csv", "a", true},
		{"sample_01.FA", ".fa", "sample_01", true},
		{"a.fasta", ".fa", "a.fasta", false},
		{".csv", ".csv", ".csv", false},
		{"a.csv", "", "a.csv", false},
	}
	for _, tt := range tests {
		got, ok := TrimExt(tt.name, tt.ext)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TrimExt(%q, %q) = %q, %v; want %q, %v", tt.name, tt.ext, got, ok, tt.want, tt.ok)
		}
	}
}
