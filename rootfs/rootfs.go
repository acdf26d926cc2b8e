// Package rootfs exposes the served directory tree as a read-only
// billy.Filesystem shared by the HTTPS, TFTP and NFS front ends.
package rootfs

import (
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// New returns a read-only view of dir, pinned to its absolute path at call
// time. Paths are resolved inside dir, so neither ".." segments nor
// symlinks can reach files outside it.
func New(dir string) billy.Filesystem {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return ReadOnly(osfs.New(dir, osfs.WithBoundOS()))
}

// ReadOnly wraps fs so every mutating call fails with billy.ErrReadOnly.
func ReadOnly(fs billy.Filesystem) billy.Filesystem {
	if ro, ok := fs.(*readOnlyFS); ok {
		return ro
	}
	return &readOnlyFS{Filesystem: fs}
}

type readOnlyFS struct {
	billy.Filesystem
}

const writeFlags = os.O_WRONLY | os.O_RDWR | os.O_CREATE | os.O_TRUNC | os.O_APPEND

func (fs *readOnlyFS) Create(filename string) (billy.File, error) {
	return nil, billy.ErrReadOnly
}

func (fs *readOnlyFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&writeFlags != 0 {
		return nil, billy.ErrReadOnly
	}
	return fs.Filesystem.OpenFile(filename, flag, perm)
}

func (fs *readOnlyFS) Rename(oldpath, newpath string) error {
	return billy.ErrReadOnly
}

func (fs *readOnlyFS) Remove(filename string) error {
	return billy.ErrReadOnly
}

func (fs *readOnlyFS) TempFile(dir, prefix string) (billy.File, error) {
	return nil, billy.ErrReadOnly
}

func (fs *readOnlyFS) MkdirAll(filename string, perm os.FileMode) error {
	return billy.ErrReadOnly
}

func (fs *readOnlyFS) Symlink(target, link string) error {
	return billy.ErrReadOnly
}

func (fs *readOnlyFS) Chroot(path string) (billy.Filesystem, error) {
	sub, err := fs.Filesystem.Chroot(path)
	if err != nil {
		return nil, err
	}
	return ReadOnly(sub), nil
}

// Capabilities lets consumers such as go-nfs detect the export is read-only.
func (fs *readOnlyFS) Capabilities() billy.Capability {
	return billy.ReadCapability | billy.SeekCapability
}
