//go:build !windows

package filemanager

import "os"

// atomicRename renames src over dst. On Unix, os.Rename is atomic.
func atomicRename(src, dst string) error {
	return os.Rename(src, dst)
}
