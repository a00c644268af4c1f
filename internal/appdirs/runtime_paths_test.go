package appdirs

import (
	"path/filepath"
	"testing"
)

func TestRuntimePathDerivations(t *testing.T) {
	paths := Paths{
		OutputDir: filepath.Join("var", "clipforge", "output"),
		CacheDir:  filepath.Join("var", "clipforge", "cache"),
	}

	if got, want := JobRootFor(paths), filepath.Join("var", "clipforge", "output", "jobs"); got != want {
		t.Fatalf("JobRootFor() = %q, want %q", got, want)
	}

	if got, want := JobDirFor(paths, "job_123"), filepath.Join("var", "clipforge", "output", "jobs", "job_123"); got != want {
		t.Fatalf("JobDirFor() = %q, want %q", got, want)
	}

	if got, want := UploadRootFor(paths), filepath.Join("var", "clipforge", "output", "uploads"); got != want {
		t.Fatalf("UploadRootFor() = %q, want %q", got, want)
	}

	if got, want := DBPathFor(paths), filepath.Join("var", "clipforge", "cache", "clipforge.db"); got != want {
		t.Fatalf("DBPathFor() = %q, want %q", got, want)
	}
}

func TestRuntimePathDerivationsWithFallbacks(t *testing.T) {
	paths := Paths{}

	if got, want := JobRootFor(paths), "jobs"; got != want {
		t.Fatalf("JobRootFor() with empty output dir = %q, want %q", got, want)
	}

	if got, want := UploadRootFor(paths), "uploads"; got != want {
		t.Fatalf("UploadRootFor() with empty output dir = %q, want %q", got, want)
	}

	if got, want := DBPathFor(paths), filepath.Join("cache", "clipforge.db"); got != want {
		t.Fatalf("DBPathFor() with empty cache dir = %q, want %q", got, want)
	}
}
