package partition

import (
	"crypto/sha1"
	"encoding/binary"
	"fmt"

	"dskpart/record"
	"dskpart/sector"
)

const (
	rdbScheme = "rdb"

	rdbMagic   = 0x5244534B // "RDSK"
	badbMagic  = 0x42414442 // "BADB"
	partMagic  = 0x50415254 // "PART"
	fshdMagic  = 0x46534844 // "FSHD"
	lsegMagic  = 0x4C534547 // "LSEG"
	rdbEnd     = 0xFFFFFFFF
	rdbScanMax = 16

	partFlagBootable  = 0x01
	partFlagNoMount   = 0x02
	rdbBlockHeaderLen = 20
)

// rdbBlock is the RigidDiskBlock root.
type rdbBlock struct {
	Magic              uint32
	Size               uint32
	Checksum           int32
	HostID             uint32
	BlockSize          uint32
	Flags              uint32
	BadBlockPtr        uint32
	PartitionPtr       uint32
	FSHDPtr            uint32
	DriveInit          uint32
	Reserved1          [6]uint32
	Cylinders          uint32
	Sectors            uint32
	Heads              uint32
	Interleave         uint32
	Park               uint32
	Reserved2          [3]uint32
	WritePreComp       uint32
	ReducedWrite       uint32
	StepRate           uint32
	Reserved3          [5]uint32
	RDBBlockLow        uint32
	RDBBlockHigh       uint32
	LowCylinder        uint32
	HighCylinder       uint32
	CylBlocks          uint32
	AutoParkSeconds    uint32
	HighRDSKBlock      uint32
	Reserved4          uint32
	DiskVendor         [8]byte
	DiskProduct        [16]byte
	DiskRevision       [4]byte
	ControllerVendor   [8]byte
	ControllerProduct  [16]byte
	ControllerRevision [4]byte
}

type rdbBadBlockHeader struct {
	Magic    uint32
	Size     uint32
	Checksum int32
	HostID   uint32
	Next     uint32
	Reserved uint32
}

type rdbBadBlockPair struct {
	Bad  uint32
	Good uint32
}

// dosEnvVec is the DOS environment vector of a partition: its geometry and
// filesystem type.
type dosEnvVec struct {
	Size            uint32
	BlockSize       uint32
	SecOrg          uint32
	Surfaces        uint32
	SectorsPerBlock uint32
	BlocksPerTrack  uint32
	Reserved        uint32
	PreAlloc        uint32
	Interleave      uint32
	LowCylinder     uint32
	HighCylinder    uint32
	NumBuffer       uint32
	BufMemType      uint32
	MaxTransfer     uint32
	Mask            uint32
	BootPriority    int32
	DOSType         uint32
	Baud            uint32
	Control         uint32
	BootBlocks      uint32
}

type rdbPartitionBlock struct {
	Magic     uint32
	Size      uint32
	Checksum  int32
	HostID    uint32
	Next      uint32
	Flags     uint32
	Reserved1 [2]uint32
	DevFlags  uint32
	DriveName [32]byte
	Reserved2 [15]uint32
	Env       dosEnvVec
}

type rdbFSHeaderBlock struct {
	Magic        uint32
	Size         uint32
	Checksum     int32
	HostID       uint32
	Next         uint32
	Flags        uint32
	Reserved1    [2]uint32
	DOSType      uint32
	Version      uint32
	PatchFlags   uint32
	Type         uint32
	Task         uint32
	Lock         uint32
	Handler      uint32
	StackSize    uint32
	Priority     int32
	Startup      uint32
	SegListBlock uint32
	GlobalVec    uint32
}

type rdbLoadSegHeader struct {
	Magic    uint32
	Size     uint32
	Checksum int32
	HostID   uint32
	Next     uint32
}

type rdbDecoder struct {
	src    sector.Source
	geo    sector.Geometry
	offset uint64
	base   uint64 // offset in RDB blocks
	b      *builder
}

// DecodeRDB reads an Amiga Rigid Disk Block and its partition chain. Finding
// the root block is success even when no partition follows it.
func DecodeRDB(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	d := &rdbDecoder{src: src, geo: g, offset: offset, b: newBuilder(rdbScheme, src)}

	var root rdbBlock
	found := false
	for i := uint64(0); i < rdbScanMax && offset+i < g.Sectors; i++ {
		buf, err := src.ReadSector(offset + i)
		if err != nil {
			break
		}
		if len(buf) < 4 || binary.BigEndian.Uint32(buf) != rdbMagic {
			continue
		}
		if err := record.Unpack(buf, binary.BigEndian, &root); err != nil {
			continue
		}
		d.verify("RDSK", offset+i, buf)
		d.b.log.Debugf("rigid disk block at %d: %s %s %s, %d cylinders, %d heads, %d sectors",
			offset+i, record.CString(root.DiskVendor[:]), record.CString(root.DiskProduct[:]),
			record.CString(root.DiskRevision[:]), root.Cylinders, root.Heads, root.Sectors)
		found = true
		break
	}
	if !found {
		return nil, false
	}
	d.b.units(uint64(root.BlockSize), g)
	d.base = scale(offset, uint64(g.SectorSize), d.b.sectorSize)

	d.badBlocks(root.BadBlockPtr)
	d.partitions(root.PartitionPtr)
	d.filesystems(root.FSHDPtr)
	return d.b.parts, true
}

// walk follows one chain of blocks tagged with magic, starting at head. visit
// receives each block and returns the next pointer.
func (d *rdbDecoder) walk(name string, head uint32, magic uint32, visit func(lba uint64, buf []byte) uint32) {
	guard := newChain(d.b.log, name, d.geo.Sectors)
	for ptr := head; ptr != rdbEnd; {
		lba := d.offset + uint64(ptr)
		if lba >= d.geo.Sectors || !guard.next(lba) {
			return
		}
		buf, err := d.src.ReadSector(lba)
		if err != nil {
			d.b.log.Debugf("%s block %d unreadable: %v", name, lba, err)
			return
		}
		if len(buf) < rdbBlockHeaderLen || binary.BigEndian.Uint32(buf) != magic {
			d.b.log.Debugf("%s chain ends at %d without its magic", name, lba)
			return
		}
		d.verify(name, lba, buf)
		ptr = visit(lba, buf)
	}
}

// verify logs blocks whose longs, Size of them, do not sum to zero.
func (d *rdbDecoder) verify(name string, lba uint64, buf []byte) {
	longs := uint64(binary.BigEndian.Uint32(buf[4:]))
	if longs*4 > uint64(len(buf)) {
		d.b.log.Warnf("%s block at %d claims %d longs", name, lba, longs)
		return
	}
	var sum int32
	for i := uint64(0); i < longs; i++ {
		sum += int32(binary.BigEndian.Uint32(buf[i*4:]))
	}
	if sum != 0 {
		d.b.log.Warnf("%s block at %d has a bad checksum", name, lba)
	}
}

func (d *rdbDecoder) badBlocks(head uint32) {
	d.walk("BADB", head, badbMagic, func(lba uint64, buf []byte) uint32 {
		var h rdbBadBlockHeader
		if err := record.Unpack(buf, binary.BigEndian, &h); err != nil {
			return rdbEnd
		}
		pairs := uint64(0)
		if h.Size > 6 {
			pairs = uint64(h.Size-6) / 2
		}
		hdr := uint64(record.Size(&h))
		for i := uint64(0); i < pairs && hdr+(i+1)*8 <= uint64(len(buf)); i++ {
			var p rdbBadBlockPair
			_ = record.Unpack(buf[hdr+i*8:], binary.BigEndian, &p)
			d.b.log.Debugf("bad block %d remapped to %d", p.Bad, p.Good)
		}
		return h.Next
	})
}

func (d *rdbDecoder) partitions(head uint32) {
	d.walk("PART", head, partMagic, func(lba uint64, buf []byte) uint32 {
		var p rdbPartitionBlock
		if err := record.Unpack(buf, binary.BigEndian, &p); err != nil {
			d.b.log.Debugf("partition block at %d too short", lba)
			return rdbEnd
		}
		env := p.Env
		perCyl := uint64(env.Surfaces) * uint64(env.BlocksPerTrack)
		if env.HighCylinder < env.LowCylinder || perCyl == 0 {
			d.b.log.Debugf("partition block at %d has empty geometry", lba)
			return p.Next
		}
		desc := fmt.Sprintf("DosType %s, boot priority %d", amigaTag(env.DOSType), env.BootPriority)
		if p.Flags&partFlagBootable != 0 {
			desc += ", bootable"
		}
		if p.Flags&partFlagNoMount != 0 {
			desc += ", not mounted automatically"
		}
		d.b.add(Partition{
			Start:       d.base + uint64(env.LowCylinder)*perCyl,
			Length:      (uint64(env.HighCylinder) - uint64(env.LowCylinder) + 1) * perCyl,
			Type:        amigaTypeName(env.DOSType),
			Name:        bcplString(p.DriveName[:]),
			Description: desc,
		})
		return p.Next
	})
}

// filesystems walks the filesystem header chain. Handler code is only
// fingerprinted for the log.
func (d *rdbDecoder) filesystems(head uint32) {
	d.walk("FSHD", head, fshdMagic, func(lba uint64, buf []byte) uint32 {
		var fs rdbFSHeaderBlock
		if err := record.Unpack(buf, binary.BigEndian, &fs); err != nil {
			return rdbEnd
		}
		code := d.loadSegments(fs.SegListBlock)
		d.b.log.Debugf("filesystem %s version %d.%d: %d bytes of code, sha1 %x",
			amigaTag(fs.DOSType), fs.Version>>16, fs.Version&0xFFFF, len(code), sha1.Sum(code))
		return fs.Next
	})
}

func (d *rdbDecoder) loadSegments(head uint32) []byte {
	var code []byte
	d.walk("LSEG", head, lsegMagic, func(lba uint64, buf []byte) uint32 {
		var h rdbLoadSegHeader
		if err := record.Unpack(buf, binary.BigEndian, &h); err != nil {
			return rdbEnd
		}
		end := uint64(h.Size) * 4
		if end > uint64(len(buf)) {
			end = uint64(len(buf))
		}
		if end > rdbBlockHeaderLen {
			code = append(code, buf[rdbBlockHeaderLen:end]...)
		}
		return h.Next
	})
	return code
}

// bcplString decodes a length-prefixed BCPL string.
func bcplString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	n := int(b[0])
	if n > len(b)-1 {
		n = len(b) - 1
	}
	return string(b[1 : 1+n])
}
