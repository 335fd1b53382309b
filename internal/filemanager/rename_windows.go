//go:build windows

package filemanager

import (
	"os"
	"syscall"
	"time"
)

// atomicRename renames src over dst. Windows refuses to rename over an
// existing file while a handle is open, so retry after removing dst.
func atomicRename(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	if linkErr, ok := err.(*os.LinkError); ok {
		if errno, ok := linkErr.Err.(syscall.Errno); ok {
			// ERROR_ACCESS_DENIED = 5, ERROR_ALREADY_EXISTS = 183
			if errno == 5 || errno == 183 {
				_ = os.Remove(dst)
				time.Sleep(10 * time.Millisecond)
				return os.Rename(src, dst)
			}
		}
	}

	return err
}
