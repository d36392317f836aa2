package partition

import "fmt"

// ToLBA converts a cylinder/head/sector address to a linear sector number.
// sector is 1-based. Nothing is bounds checked.
func ToLBA(cylinder, head, sector, heads, sectorsPerTrack uint64) uint64 {
	return (cylinder*heads+head)*sectorsPerTrack + sector - 1
}

// FromLBA is the inverse of ToLBA.
func FromLBA(lba, heads, sectorsPerTrack uint64) (cylinder, head, sector uint64) {
	if heads == 0 || sectorsPerTrack == 0 {
		return 0, 0, 0
	}
	cylinder = lba / (heads * sectorsPerTrack)
	head = (lba / sectorsPerTrack) % heads
	sector = lba%sectorsPerTrack + 1
	return
}

// CHS is an address in the packed three-byte form of PC partition tables.
type CHS struct {
	Cylinder uint16
	Head     uint8
	Sector   uint8
}

// DecodeCHS unpacks head, sector (bits 0-5) and cylinder (bits 6-7 of the
// second byte are its high bits).
func DecodeCHS(b [3]byte) CHS {
	return CHS{
		Head:     b[0],
		Sector:   b[1] & 0x3F,
		Cylinder: uint16(b[1]&0xC0)<<2 | uint16(b[2]),
	}
}

// IsZero reports an unset address.
func (c CHS) IsZero() bool {
	return c.Cylinder == 0 && c.Head == 0 && c.Sector == 0
}

// LBA converts c with the given translation geometry.
func (c CHS) LBA(heads, sectorsPerTrack uint64) uint64 {
	return ToLBA(uint64(c.Cylinder), uint64(c.Head), uint64(c.Sector), heads, sectorsPerTrack)
}

func (c CHS) String() string {
	return fmt.Sprintf("%d/%d/%d", c.Cylinder, c.Head, c.Sector)
}
