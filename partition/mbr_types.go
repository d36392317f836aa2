package partition

var mbrTypes = map[byte]string{
	0x00: "Empty",
	0x01: "FAT12",
	0x02: "XENIX root",
	0x03: "XENIX /usr",
	0x04: "FAT16 < 32 MiB",
	0x05: "Extended",
	0x06: "FAT16",
	0x07: "IFS (HPFS/NTFS)",
	0x08: "AIX boot, OS/2, Commodore DOS",
	0x09: "AIX data, Coherent, QNX",
	0x0A: "Coherent swap, OPUS, OS/2 Boot Manager",
	0x0B: "FAT32",
	0x0C: "FAT32 (LBA)",
	0x0E: "FAT16 (LBA)",
	0x0F: "Extended (LBA)",
	0x10: "OPUS",
	0x11: "Hidden FAT12",
	0x12: "Compaq diagnostics, recovery partition",
	0x14: "Hidden FAT16 < 32 MiB, AST-DOS",
	0x15: "Hidden extended",
	0x16: "Hidden FAT16",
	0x17: "Hidden IFS (HPFS/NTFS)",
	0x18: "AST-Windows swap",
	0x19: "Willowtech Photon coS",
	0x1B: "Hidden FAT32",
	0x1C: "Hidden FAT32 (LBA)",
	0x1E: "Hidden FAT16 (LBA)",
	0x1F: "Hidden extended (LBA)",
	0x20: "Willowsoft Overture File System",
	0x21: "Oxygen FSo2",
	0x22: "Oxygen Extended",
	0x23: "SpeedStor reserved",
	0x24: "NEC-DOS",
	0x26: "SpeedStor reserved",
	0x27: "Hidden NTFS (recovery)",
	0x31: "SpeedStor reserved",
	0x32: "NOS",
	0x33: "SpeedStor reserved",
	0x34: "SpeedStor reserved",
	0x35: "JFS",
	0x36: "SpeedStor reserved",
	0x38: "Theos",
	0x39: "Plan 9",
	0x3C: "Partition Magic",
	0x3D: "Hidden NetWare",
	0x40: "VENIX 80286",
	0x41: "PReP Boot",
	0x42: "Secure File System, Windows dynamic disk",
	0x43: "PTS-DOS 6.70",
	0x44: "GoBack",
	0x45: "Priam, EUMEL/Elan",
	0x46: "EUMEL/Elan",
	0x47: "EUMEL/Elan",
	0x48: "EUMEL/Elan",
	0x4A: "ALFS/THIN",
	0x4C: "Oberon",
	0x4D: "QNX 4",
	0x4E: "QNX 4 secondary",
	0x4F: "QNX 4 tertiary, Oberon",
	0x50: "Ontrack DM, R/O, FAT",
	0x51: "Ontrack DM, R/W, FAT",
	0x52: "CP/M, Microport UNIX",
	0x53: "Ontrack DM 6",
	0x54: "Ontrack DM 6",
	0x55: "EZ-Drive",
	0x56: "Golden Bow VFeature",
	0x5C: "Priam EDISK",
	0x61: "SpeedStor",
	0x63: "GNU Hurd, System V, Mach",
	0x64: "NetWare 2",
	0x65: "NetWare 3/4",
	0x66: "NetWare SMS",
	0x67: "Novell",
	0x68: "Novell",
	0x69: "NetWare NSS",
	0x70: "DiskSecure Multi-Boot",
	0x72: "UNIX 7th Edition",
	0x75: "IBM PC/IX",
	0x77: "QNX",
	0x78: "XOSL",
	0x7E: "F.I.X.",
	0x7F: "Alt-OS development",
	0x80: "Old MINIX",
	0x81: "MINIX, Old Linux",
	0x82: "Linux swap, Solaris",
	0x83: "Linux",
	0x84: "Hibernation, OS/2 hidden C:",
	0x85: "Linux extended",
	0x86: "NTFS volume set",
	0x87: "NTFS volume set",
	0x88: "Linux plaintext partition table",
	0x8A: "Linux kernel",
	0x8B: "FAT32 volume set",
	0x8C: "FAT32 (LBA) volume set",
	0x8D: "FreeDOS hidden FAT12",
	0x8E: "Linux LVM",
	0x90: "FreeDOS hidden FAT16 < 32 MiB",
	0x91: "FreeDOS hidden extended",
	0x92: "FreeDOS hidden FAT16",
	0x93: "Amoeba, Hidden Linux",
	0x94: "Amoeba bad blocks",
	0x95: "MIT EXOPC",
	0x97: "FreeDOS hidden FAT32",
	0x98: "FreeDOS hidden FAT32 (LBA)",
	0x99: "DCE376",
	0x9A: "FreeDOS hidden FAT16 (LBA)",
	0x9B: "FreeDOS hidden extended (LBA)",
	0x9F: "BSD/OS",
	0xA0: "Hibernation",
	0xA1: "HP Volume Expansion",
	0xA3: "HP Volume Expansion",
	0xA4: "HP Volume Expansion",
	0xA5: "FreeBSD",
	0xA6: "OpenBSD",
	0xA7: "NeXTStep",
	0xA8: "Apple UFS",
	0xA9: "NetBSD",
	0xAA: "Olivetti DOS FAT12",
	0xAB: "Apple Boot",
	0xAF: "Apple HFS",
	0xB0: "BootStar",
	0xB1: "HP Volume Expansion",
	0xB3: "HP Volume Expansion",
	0xB4: "HP Volume Expansion",
	0xB6: "HP Volume Expansion",
	0xB7: "BSDi",
	0xB8: "BSDi swap",
	0xBB: "PTS BootWizard",
	0xBC: "Acronis backup",
	0xBE: "Solaris boot",
	0xBF: "Solaris",
	0xC0: "Novell DOS, DR-DOS secured",
	0xC1: "DR-DOS secured FAT12",
	0xC2: "DR-DOS reserved",
	0xC3: "DR-DOS reserved",
	0xC4: "DR-DOS secured FAT16 < 32 MiB",
	0xC5: "DR-DOS secured extended",
	0xC6: "DR-DOS secured FAT16",
	0xC7: "Syrinx",
	0xC8: "DR-DOS reserved",
	0xC9: "DR-DOS reserved",
	0xCA: "DR-DOS reserved",
	0xCB: "DR-DOS secured FAT32",
	0xCC: "DR-DOS secured FAT32 (LBA)",
	0xCD: "DR-DOS reserved",
	0xCE: "DR-DOS secured FAT16 (LBA)",
	0xCF: "DR-DOS secured extended (LBA)",
	0xD0: "Multiuser DOS secured FAT12",
	0xD1: "Multiuser DOS secured FAT12",
	0xD4: "Multiuser DOS secured FAT16 < 32 MiB",
	0xD5: "Multiuser DOS secured extended",
	0xD6: "Multiuser DOS secured FAT16",
	0xD8: "CP/M",
	0xDA: "Filesystem-less data",
	0xDB: "CP/M, CCP/M, CTOS",
	0xDE: "Dell partition",
	0xDF: "BootIt EMBRM",
	0xE1: "SpeedStor",
	0xE2: "DOS read/only",
	0xE3: "SpeedStor",
	0xE4: "SpeedStor",
	0xE5: "Tandy DOS",
	0xE6: "SpeedStor",
	0xEB: "BeOS",
	0xED: "Spryt*x",
	0xEE: "GUID Partition Table",
	0xEF: "EFI system partition",
	0xF0: "Linux boot",
	0xF1: "SpeedStor",
	0xF2: "DOS 3.3 secondary, Unisys DOS",
	0xF3: "SpeedStor",
	0xF4: "SpeedStor",
	0xF5: "Prologue",
	0xF6: "SpeedStor",
	0xFB: "VMware VMFS",
	0xFC: "VMware VMKcore",
	0xFD: "Linux RAID",
	0xFE: "SpeedStor, IBM PS/2 IML",
	0xFF: "Xenix bad block table",
}

func mbrTypeName(t byte) string {
	if name, ok := mbrTypes[t]; ok {
		return name
	}
	return "Unknown"
}
