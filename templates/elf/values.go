package elf

import "github.com/bearlytools/bindecl/structs"

// Values from elf.h.

var classValues = []structs.Value{
	structs.V(0, "ELFCLASSNONE", "Invalid class").WithValid(structs.Invalid),
	structs.V(1, "ELFCLASS32", "32 bits architecture"),
	structs.V(2, "ELFCLASS64", "64 bits architecture"),
}

var dataValues = []structs.Value{
	structs.V(0, "ELFDATANONE", "Unknown data format"),
	structs.V(1, "ELFDATA2LSB", "Two's complement, little-endian"),
	structs.V(2, "ELFDATA2MSB", "Two's complement, big-endian"),
}

var versionValues = []structs.Value{
	structs.V(0, "EV_NONE", "Invalid version"),
	structs.V(1, "EV_CURRENT", "Current version"),
}

var osabiValues = []structs.Value{
	structs.V(0x0, "ELFOSABI_NONE", "Same as ELFOSABI_SYSV"),
	structs.V(0x1, "ELFOSABI_SYSV", "UNIX System V ABI"),
	structs.V(0x2, "ELFOSABI_HPUX", "HP-UX ABI"),
	structs.V(0x3, "ELFOSABI_NETBSD", "NetBSD ABI"),
	structs.V(0x4, "ELFOSABI_LINUX", "Linux ABI"),
	structs.V(0x5, "ELFOSABI_SOLARIS", "Solaris ABI"),
	structs.V(0x6, "ELFOSABI_IRIX", "IRIX ABI"),
	structs.V(0x7, "ELFOSABI_FREEBSD", "FreeBSD ABI"),
	structs.V(0x8, "ELFOSABI_TRU64", "TRU64 UNIX ABI"),
	structs.V(0x9, "ELFOSABI_ARM", "ARM architecture ABI"),
	structs.V(0xa, "ELFOSABI_STANDALONE", "Stand-alone (embedded) ABI"),
}

var typeValues = []structs.Value{
	structs.V(0, "ET_NONE", "Unknown type."),
	structs.V(1, "ET_REL", "Relocatable file."),
	structs.V(2, "ET_EXEC", "Executable file."),
	structs.V(3, "ET_DYN", "Shared object."),
	structs.V(4, "ET_CORE", "Core file."),
}

// Only the common machines; elf.h knows about two hundred.
var machineValues = []structs.Value{
	structs.V(0, "EM_NONE"),
	structs.V(3, "EM_386", "Intel 80386"),
	structs.V(8, "EM_MIPS", "MIPS R3000 big-endian"),
	structs.V(20, "EM_PPC", "PowerPC"),
	structs.V(21, "EM_PPC64", "PowerPC 64-bit"),
	structs.V(40, "EM_ARM", "ARM"),
	structs.V(62, "EM_X86_64", "AMD x86-64 architecture"),
	structs.V(183, "EM_AARCH64", "ARM AARCH64"),
	structs.V(243, "EM_RISCV", "RISC-V"),
}

var progTypeValues = []structs.Value{
	structs.V(0, "PT_NULL"),
	structs.V(1, "PT_LOAD"),
	structs.V(2, "PT_DYNAMIC"),
	structs.V(3, "PT_INTERP"),
	structs.V(4, "PT_NOTE"),
	structs.V(5, "PT_SHLIB"),
	structs.V(6, "PT_PHDR"),
	structs.V(7, "PT_TLS"),
	structs.V(8, "PT_NUM"),
	structs.V(0x60000000, "PT_LOOS", "Start of OS specific"),
	structs.V(0x6474e550, "PT_GNU_EH_FRAME"),
	structs.V(0x6474e551, "PT_GNU_STACK"),
	structs.V(0x6474e552, "PT_GNU_RELRO"),
	structs.V(0x6ffffffa, "PT_SUNWBSS"),
	structs.V(0x6ffffffb, "PT_SUNWSTACK"),
	structs.V(0x6fffffff, "PT_HIOS"),
	structs.V(0x70000000, "PT_LOPROC"),
	structs.V(0x7fffffff, "PT_HIPROC"),
}

var progFlagValues = []structs.Value{
	structs.V(0x1, "PF_X"),
	structs.V(0x2, "PF_W"),
	structs.V(0x4, "PF_R"),
	structs.V(0x0ff00000, "PF_MASKOS"),
	structs.V(0xf0000000, "PF_MASKPROC"),
}

var sectionTypeValues = []structs.Value{
	structs.V(0, "SHT_NULL"),
	structs.V(1, "SHT_PROGBITS"),
	structs.V(2, "SHT_SYMTAB"),
	structs.V(3, "SHT_STRTAB"),
	structs.V(4, "SHT_RELA"),
	structs.V(5, "SHT_HASH"),
	structs.V(6, "SHT_DYNAMIC"),
	structs.V(7, "SHT_NOTE"),
	structs.V(8, "SHT_NOBITS"),
	structs.V(9, "SHT_REL"),
	structs.V(10, "SHT_SHLIB"),
	structs.V(11, "SHT_DYNSYM"),
	structs.V(14, "SHT_INIT_ARRAY"),
	structs.V(15, "SHT_FINI_ARRAY"),
	structs.V(16, "SHT_PREINIT_ARRAY"),
	structs.V(17, "SHT_GROUP"),
	structs.V(18, "SHT_SYMTAB_SHNDX"),
	structs.V(19, "SHT_NUM"),
	structs.V(0x60000000, "SHT_LOOS"),
	structs.V(0x6ffffff5, "SHT_GNU_ATTRIBUTES"),
	structs.V(0x6ffffff6, "SHT_GNU_HASH"),
	structs.V(0x6ffffff7, "SHT_GNU_LIBLIST"),
	structs.V(0x6ffffff8, "SHT_CHECKSUM"),
	structs.V(0x6ffffffa, "SHT_SUNW_move"),
	structs.V(0x6ffffffb, "SHT_SUNW_COMDAT"),
	structs.V(0x6ffffffc, "SHT_SUNW_syminfo"),
	structs.V(0x6ffffffd, "SHT_GNU_verdef"),
	structs.V(0x6ffffffe, "SHT_GNU_verneed"),
	structs.V(0x6fffffff, "SHT_GNU_versym"),
	structs.V(0x70000000, "SHT_LOPROC"),
	structs.V(0x7fffffff, "SHT_HIPROC"),
	structs.V(0x80000000, "SHT_LOUSER"),
	structs.V(0x8fffffff, "SHT_HIUSER"),
}

var sectionFlagValues = []structs.Value{
	structs.V(0x1, "SHF_WRITE"),
	structs.V(0x2, "SHF_ALLOC"),
	structs.V(0x4, "SHF_EXECINSTR"),
	structs.V(0x8, "SHF_MERGE"),
	structs.V(0x10, "SHF_STRINGS"),
	structs.V(0x20, "SHF_INFO_LINK"),
	structs.V(0x40, "SHF_LINK_ORDER"),
	structs.V(0x80, "SHF_OS_NONCONFORMING"),
	structs.V(0x100, "SHF_GROUP"),
	structs.V(0x200, "SHF_TLS"),
	structs.V(0x0ff00000, "SHF_MASKOS"),
	structs.V(0xf0000000, "SHF_MASKPROC"),
	structs.V(0x40000000, "SHF_ORDERED"),
	structs.V(0x80000000, "SHF_EXCLUDE"),
}
