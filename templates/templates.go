// Package templates holds the file type templates shipped with bindecl.
package templates

import (
	"github.com/bearlytools/bindecl/filetype"
	"github.com/bearlytools/bindecl/templates/elf"
	"github.com/bearlytools/bindecl/templates/pcap"
)

// All returns the built-in file types.
func All() []filetype.FileType {
	return []filetype.FileType{
		elf.FileType(),
		pcap.FileType(),
	}
}

// Register adds the built-in file types to r.
func Register(r *filetype.Registry) error {
	for _, ft := range All() {
		if err := r.Register(ft); err != nil {
			return err
		}
	}
	return nil
}
