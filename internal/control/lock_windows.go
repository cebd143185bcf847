//go:build windows

package control

import "os"

// lock is a no-op; signalling another timer is unsupported on Windows.
func lock(*os.File) error { return nil }

func locked(path string) (bool, error) {
	_, err := os.Stat(path)
	return err == nil, nil
}
