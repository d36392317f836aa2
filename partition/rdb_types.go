package partition

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// amigaTypes maps exact DosType tags to labels.
var amigaTypes = map[string]string{
	"DOS\x00": "Amiga Original File System",
	"DOS\x01": "Amiga Fast File System",
	"DOS\x02": "Amiga Original File System with international characters",
	"DOS\x03": "Amiga Fast File System with international characters",
	"DOS\x04": "Amiga Original File System with directory cache",
	"DOS\x05": "Amiga Fast File System with directory cache",
	"DOS\x06": "Amiga Original File System with long filenames",
	"DOS\x07": "Amiga Fast File System with long filenames",
	"muFS":    "Amiga MultiUser File System",
	"muAF":    "Amiga MultiUser Fast File System",
	"muPF":    "Amiga MultiUser Professional File System",
	"AFS\x00": "AmiFileSafe",
	"AFS\x01": "AmiFileSafe (experimental)",
	"PFS\x00": "Professional File System",
	"PFS\x01": "Professional File System 1",
	"PFS\x02": "Professional File System 2",
	"PFS\x03": "Professional File System 3",
	"PDS\x02": "Professional File System 2 (direct SCSI)",
	"PDS\x03": "Professional File System 3 (direct SCSI)",
	"SFS\x00": "Smart File System",
	"SFS\x02": "Smart File System 2",
	"FAT\x00": "FAT",
	"MSD\x00": "CrossDOS floppy",
	"MSH\x00": "CrossDOS hard disk",
	"MAC\x00": "Macintosh HFS",
	"BFFS":    "Berkeley Fast File System",
	"BSD\x00": "BSD unused",
	"BSD\x01": "BSD swap",
	"BSD\x07": "BSD 4.2 FFS",
	"BSD\x08": "BSD 4.4 LFS",
	"BSR\x07": "BSD root",
	"NBR\x07": "NetBSD root partition",
	"NBS\x01": "NetBSD swap partition",
	"NBU\x07": "NetBSD user partition",
	"NBU\x08": "NetBSD user partition (LFS)",
	"OBR\x07": "OpenBSD root partition",
	"OBS\x01": "OpenBSD swap partition",
	"OBU\x07": "OpenBSD user partition",
	"UNI\x00": "Amix boot partition",
	"UNI\x01": "Amix System V filesystem",
	"UNI\x02": "Amix BSD filesystem",
	"UNI\x03": "Amix reserved partition",
	"LNX\x00": "Linux",
	"EXT2":    "Linux ext2",
	"EXT3":    "Linux ext3",
	"SWAP":    "Linux swap",
	"SWP\x00": "Linux swap",
	"RAID":    "Linux RAID",
	"LVM\x00": "Linux LVM",
	"MNX\x00": "MINIX",
	"MNX\x01": "MINIX 2",
	"QNX\x06": "QNX power-safe filesystem",
	"BEFS":    "BeOS filesystem",
	"KICK":    "Kickstart disk",
	"BOOU":    "Amiga boot disk",
	"resv":    "Reserved",
	"CD01":    "Amiga CD filesystem",
	"CDFS":    "ISO9660 filesystem",
	"JXF\x04": "Amiga UNIX",
	"TFS\x00": "TrueFile System",
	"VFS\x00": "Virtual File System",
}

// amigaFamilies classifies tags by their first three bytes when no exact
// label exists.
var amigaFamilies = []struct {
	prefix string
	name   string
}{
	{"DOS", "Amiga DOS family filesystem"},
	{"PFS", "Professional File System family"},
	{"PDS", "Professional File System family"},
	{"SFS", "Smart File System family"},
	{"AFS", "AmiFileSafe family"},
	{"NB", "NetBSD partition"},
	{"OB", "OpenBSD partition"},
	{"BSD", "BSD partition"},
	{"UNI", "Amix partition"},
	{"LNX", "Linux partition"},
	{"MNX", "MINIX partition"},
	{"MS", "CrossDOS family filesystem"},
	{"mu", "MultiUser File System family"},
}

func amigaTypeName(dosType uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], dosType)
	tag := string(b[:])
	if name, ok := amigaTypes[tag]; ok {
		return name
	}
	for _, f := range amigaFamilies {
		if strings.HasPrefix(tag, f.prefix) {
			return f.name
		}
	}
	return fmt.Sprintf("Unknown partition type %s", amigaTag(dosType))
}

// amigaTag renders a DosType the way AmigaDOS tools print it: three
// characters and the version number.
func amigaTag(dosType uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], dosType)
	var sb strings.Builder
	for _, c := range b[:3] {
		if c < 0x20 || c > 0x7E {
			fmt.Fprintf(&sb, "\\x%02X", c)
		} else {
			sb.WriteByte(c)
		}
	}
	if b[3] >= 0x20 && b[3] <= 0x7E {
		sb.WriteByte(b[3])
	} else {
		fmt.Fprintf(&sb, "\\%d", b[3])
	}
	return sb.String()
}
