// Package elf is the template of ELF object files: the file header, the program
// header table and the section header table.
//
// The width of addresses, offsets and sizes depends on the class of the file
// (e_ident.ei_class), read from the header mapped at offset 0. Fields are decoded
// little endian whatever e_ident.ei_data says.
package elf

import (
	"bytes"
	"fmt"

	"github.com/gostdlib/base/context"

	"github.com/bearlytools/bindecl/data"
	"github.com/bearlytools/bindecl/filetype"
	"github.com/bearlytools/bindecl/offset"
	"github.com/bearlytools/bindecl/structs"
)

// Magic starts every ELF file.
const Magic = "\x7fELF"

// identSize is EI_NIDENT.
const identSize = 16

const ehdrName = "Ehdr"

// Ident is e_ident, the machine independent start of the file header.
var Ident = structs.NewType(
	"Ident",
	[]structs.Decl{
		structs.F("ei_mag", structs.NewBytes(4, structs.Desc("Magic"), structs.Valid(structs.Equals(Magic)))),
		structs.F("ei_class", structs.NewInt(structs.Desc("Binary architecture"), structs.Values(classValues...))),
		structs.F("ei_data", structs.NewInt(structs.Desc("Data encoding (endianness)"), structs.Values(dataValues...))),
		structs.F("ei_version", structs.NewInt(structs.Desc("ELF specification number"), structs.Values(versionValues...))),
		structs.F("ei_osabi", structs.NewInt(structs.Desc("Operating system ABI"), structs.Values(osabiValues...))),
		structs.F("ei_abiversion", structs.NewInt(structs.Desc("ABI version"))),
		structs.F("ei_pad", structs.Fill(identSize)),
	},
	structs.WithDescription("ELF identification"),
)

// Ehdr is the ELF file header. Once mapped it maps the program and section header
// tables it points to.
var Ehdr = structs.NewType(
	ehdrName,
	[]structs.Decl{
		structs.F("e_ident", structs.NewSub(Ident)),
		structs.F("e_type", structs.NewInt(structs.Desc("Object file type"), structs.Width(2), structs.Values(typeValues...))),
		structs.F("e_machine", structs.NewInt(structs.Desc("Machine architecture"), structs.Width(2), structs.Values(machineValues...))),
		structs.F("e_version", structs.NewInt(structs.Desc("File version"), structs.Width(4), structs.Values(versionValues...))),
		structs.F("e_entry", addr("Entry point of the program")),
		structs.F("e_phoff", addr("Program header table offset")),
		structs.F("e_shoff", addr("Section header table offset")),
		structs.F("e_flags", structs.NewInt(structs.Desc("Machine flags"), structs.Width(4), structs.Hex())),
		structs.F("e_ehsize", structs.NewInt(structs.Desc("ELF header size"), structs.Width(2))),
		structs.F("e_phentsize", structs.NewInt(structs.Desc("Program header entry size"), structs.Width(2))),
		structs.F("e_phnum", structs.NewInt(structs.Desc("Number of entries in the program header table"), structs.Width(2))),
		structs.F("e_shentsize", structs.NewInt(structs.Desc("Section header entry size"), structs.Width(2))),
		structs.F("e_shnum", structs.NewInt(structs.Desc("Number of entries in the section header table"), structs.Width(2))),
		structs.F("e_shstrndx", structs.NewInt(structs.Desc("Index of the string table section header"), structs.Width(2))),
	},
	structs.WithDescription("ELF file header"),
	structs.WithSetup(setupTables),
)

// Phdr is a program header table entry. In 64 bit files p_flags is the second field.
var Phdr = structs.NewType(
	"Phdr",
	[]structs.Decl{
		structs.F("p_type", structs.NewInt(structs.Desc("Segment type"), structs.Width(4), structs.Values(progTypeValues...))),
		structs.F("p_offset", addr("Segment file offset")),
		structs.F("p_vaddr", addr("Segment virtual address")),
		structs.F("p_paddr", addr("Segment physical address")),
		structs.F("p_filesz", word("Segment size in file")),
		structs.F("p_memsz", word("Segment size in memory")),
		structs.F("p_flags", structs.NewBitMask(structs.Desc("Segment flags"), structs.Width(4), structs.Values(progFlagValues...))),
		structs.F("p_align", word("Segment alignment")),
	},
	structs.WithDescription("Program header"),
	structs.WithReorder(reorderPhdr),
)

// Shdr is a section header table entry.
var Shdr = structs.NewType(
	"Shdr",
	[]structs.Decl{
		structs.F("sh_name", structs.NewInt(structs.Desc("Section name (string table index)"), structs.Width(4))),
		structs.F("sh_type", structs.NewInt(structs.Desc("Section type"), structs.Width(4), structs.Values(sectionTypeValues...))),
		structs.F("sh_flags", structs.NewBitMask(structs.Desc("Section flags"), structs.Width(structs.RefFunc(classWidth)), structs.Values(sectionFlagValues...))),
		structs.F("sh_addr", addr("Section virtual address at execution")),
		structs.F("sh_offset", addr("Section file offset")),
		structs.F("sh_size", word("Section size in bytes")),
		structs.F("sh_link", structs.NewInt(structs.Desc("Link to another section"), structs.Width(4))),
		structs.F("sh_info", structs.NewInt(structs.Desc("Additional section information"), structs.Width(4))),
		structs.F("sh_addralign", word("Section alignment")),
		structs.F("sh_entsize", word("Entry size if section holds table")),
	},
	structs.WithDescription("Section header"),
)

// TODO: decode ELFDATA2MSB objects big endian, which needs Endian() to accept a
// reference to e_ident.ei_data like Width() does.

// addr is an address or file offset: class sized and shown in hexadecimal.
func addr(desc string) *structs.Int {
	return structs.NewInt(structs.Desc(desc), structs.Width(structs.RefFunc(classWidth)), structs.Hex())
}

// word is a class sized integer.
func word(desc string) *structs.Int {
	return structs.NewInt(structs.Desc(desc), structs.Width(structs.RefFunc(classWidth)))
}

// header returns the file header mapped at offset 0 of d.
func header(d *data.Data) (*structs.Struct, error) {
	m, err := d.Lookup(offset.At(0), data.OfType(ehdrName))
	if err != nil {
		return nil, err
	}
	return m.(*structs.Struct), nil
}

func class(s *structs.Struct) (int64, error) {
	return structs.ResolveInt(s, structs.Ref("e_ident.ei_class"))
}

// classWidth is the width of class sized fields: 4 bytes for ELFCLASS32, 8 for
// ELFCLASS64. While the header itself is assembled the class is read from it.
func classWidth(s *structs.Struct) (any, error) {
	hdr, err := header(s.Data())
	if err != nil {
		hdr = s
	}
	c, err := class(hdr)
	if err != nil {
		return nil, err
	}
	return c * 4, nil
}

func reorderPhdr(s *structs.Struct, order []string) ([]string, error) {
	hdr, err := header(s.Data())
	if err != nil {
		return order, nil
	}
	c, err := class(hdr)
	if err != nil {
		return nil, err
	}
	if c != 2 {
		return order, nil
	}
	return structs.MoveTo(order, "p_flags", 1)
}

func setupTables(ctx context.Context, s *structs.Struct, d *data.Data) error {
	tables := []struct {
		off, num string
		typ      *structs.Type
	}{
		{"e_phoff", "e_phnum", Phdr},
		{"e_shoff", "e_shnum", Shdr},
	}
	for _, t := range tables {
		off, err := structs.ResolveInt(s, structs.Ref(t.off))
		if err != nil {
			return err
		}
		if off == 0 {
			continue
		}
		n, err := structs.ResolveInt(s, structs.Ref(t.num))
		if err != nil {
			return err
		}
		if _, err := structs.MapArray(ctx, d, offset.At(off), int(n), t.typ); err != nil {
			return fmt.Errorf("could not map %s table: %w", t.typ.Name(), err)
		}
	}
	return nil
}

// FileType returns the ELF file type.
func FileType() filetype.FileType {
	return filetype.FileType{
		Name:        "elf",
		Description: "ELF object file",
		Extensions:  []string{"elf", "so", "o"},
		Check: func(d *data.Data) bool {
			b, err := d.Unpack(offset.At(0), int64(len(Magic)))
			return err == nil && bytes.Equal(b, []byte(Magic))
		},
		Setup: func(ctx context.Context, d *data.Data) error {
			_, err := structs.Map(ctx, d, offset.At(0), Ehdr)
			return err
		},
	}
}
