// Package conversions holds unsafe conversions that avoid copying buffers read from disk.
package conversions

import "unsafe"

// ByteSlice2String converts bs to a string without a copy. bs must not be modified
// after this, the string shares its storage.
func ByteSlice2String(bs []byte) string {
	if len(bs) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(bs), len(bs))
}
