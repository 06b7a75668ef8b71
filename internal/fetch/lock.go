package fetch

import (
	"os"
	"syscall"
)

// fileLock is an advisory flock shared by every process using the same cache dir.
type fileLock struct {
	path string
	file *os.File
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path}
}

// lock blocks until the lock is held. The lock file is created if needed.
func (l *fileLock) lock() error {
	return l.acquire(syscall.LOCK_EX)
}

// tryLock acquires the lock without blocking. It returns false if another
// process holds it.
func (l *fileLock) tryLock() (bool, error) {
	err := l.acquire(syscall.LOCK_EX | syscall.LOCK_NB)
	if err == syscall.EWOULDBLOCK {
		return false, nil
	}
	return err == nil, err
}

func (l *fileLock) acquire(how int) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		f.Close()
		return err
	}
	l.file = f
	return nil
}

// unlock releases the lock. Safe to call when not held.
func (l *fileLock) unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
