package fetch

import (
	"path/filepath"
	"testing"
)

func TestFileLock_LockUnlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.lock")
	l := newFileLock(path)

	if err := l.lock(); err != nil {
		t.Fatalf("lock() error = %v", err)
	}
	if l.file == nil {
		t.Error("expected file handle after lock()")
	}
	if err := l.unlock(); err != nil {
		t.Fatalf("unlock() error = %v", err)
	}
	if l.file != nil {
		t.Error("expected nil file handle after unlock()")
	}
	if err := l.unlock(); err != nil {
		t.Errorf("second unlock() error = %v", err)
	}
}

func TestFileLock_TryLockContended(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.lock")
	holder := newFileLock(path)
	if err := holder.lock(); err != nil {
		t.Fatal(err)
	}

	// flock locks belong to the open file description, so a second open
	// conflicts even within one process.
	other := newFileLock(path)
	ok, err := other.tryLock()
	if err != nil {
		t.Fatalf("tryLock() error = %v", err)
	}
	if ok {
		t.Fatal("tryLock() = true while held")
	}

	if err := holder.unlock(); err != nil {
		t.Fatal(err)
	}
	ok, err = other.tryLock()
	if err != nil || !ok {
		t.Fatalf("tryLock() after release = %v, %v, want true", ok, err)
	}
	_ = other.unlock()
}
