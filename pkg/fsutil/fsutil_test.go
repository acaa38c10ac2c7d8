package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yaklabco/hypocrite/pkg/fsutil"
)

func TestReadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads content and metadata", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "in.hypo")
		if err := os.WriteFile(path, []byte("%test t {\n%}\n"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}

		content, info, err := fsutil.ReadFile(context.Background(), path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(content) != "%test t {\n%}\n" {
			t.Errorf("content = %q", content)
		}
		if info.Path != path || info.Size != int64(len(content)) {
			t.Errorf("info = %+v", info)
		}
	})

	tests := []struct {
		name  string
		setup func(dir string) string
		want  error
	}{
		{
			name:  "missing file",
			setup: func(dir string) string { return filepath.Join(dir, "missing.hypo") },
			want:  fsutil.ErrNotFound,
		},
		{
			name:  "directory",
			setup: func(dir string) string { return dir },
			want:  fsutil.ErrIsDirectory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := fsutil.ReadFile(context.Background(), tt.setup(t.TempDir()))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCheckModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()

		if _, err := fsutil.CheckModified(ctx, nil); !errors.Is(err, fsutil.ErrNilFileInfo) {
			t.Errorf("error = %v, want ErrNilFileInfo", err)
		}
	})

	t.Run("unchanged", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "in.hypo")
		if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || modified {
			t.Errorf("CheckModified() = %v, %v; want false, nil", modified, err)
		}
	})

	t.Run("same size and time, different content", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "in.hypo")
		if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}

		if err := os.WriteFile(path, []byte("b"), 0o644); err != nil {
			t.Fatalf("rewrite: %v", err)
		}
		if err := os.Chtimes(path, time.Time{}, info.ModTime); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || !modified {
			t.Errorf("CheckModified() = %v, %v; want true, nil", modified, err)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "in.hypo")
		if err := os.WriteFile(path, []byte("a"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		_, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove: %v", err)
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil || !modified {
			t.Errorf("CheckModified() = %v, %v; want true, nil", modified, err)
		}
	})
}
