//go:build !unix

package configure

import "errors"

// FreeSpace is not available on this platform.
func FreeSpace(string) (uint64, error) {
	return 0, errors.New("free space not supported on this platform")
}
