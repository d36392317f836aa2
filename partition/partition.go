// Package partition decodes partitioning schemes found on disk images.
//
// Every scheme is a DecodeFunc: a pure function of a sector.Source and a
// starting sector that returns the partitions it found, in on-disk order, and
// whether the scheme was recognized at all. Decoders never panic and never
// return errors; unreadable sectors and malformed structures end the affected
// path and whatever was already collected is returned.
package partition

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"dskpart/sector"
)

// Partition is one normalized partition descriptor.
type Partition struct {
	Start       uint64 `json:"start"`  // first sector
	Length      uint64 `json:"length"` // in sectors
	Offset      uint64 `json:"offset"` // in bytes
	Size        uint64 `json:"size"`   // in bytes
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Sequence    uint64 `json:"sequence"`
	Scheme      string `json:"scheme"`
	Description string `json:"description,omitempty"`
}

// End is the first sector after the partition.
func (p Partition) End() uint64 {
	return p.Start + p.Length
}

func (p Partition) String() string {
	return fmt.Sprintf("%s #%d: start %d, length %d, type %q", p.Scheme, p.Sequence, p.Start, p.Length, p.Type)
}

// DecodeFunc decodes one scheme starting at sector offset of src.
type DecodeFunc func(src sector.Source, offset uint64) ([]Partition, bool)

// builder collects the partitions of one decode call. Offset, Size, Sequence
// and Scheme are always derived here.
type builder struct {
	scheme     string
	sectorSize uint64
	limit      uint64 // in units of sectorSize
	parts      []Partition
	log        *log.Entry
}

func newBuilder(scheme string, src sector.Source) *builder {
	g := src.Geometry()
	return &builder{
		scheme:     scheme,
		sectorSize: uint64(g.SectorSize),
		limit:      g.Sectors,
		log:        log.WithField("scheme", scheme),
	}
}

// units switches the builder to sectors of size bytes, for schemes whose own
// block size differs from the device's.
func (b *builder) units(size uint64, g sector.Geometry) {
	if size == 0 {
		return
	}
	b.sectorSize = size
	b.limit = g.Bytes() / size
}

// add appends p when it starts inside the device, clipping its length to the
// device end. It reports whether p was kept.
func (b *builder) add(p Partition) bool {
	if p.Length == 0 {
		return false
	}
	if p.Start >= b.limit {
		b.log.Debugf("skipping partition at %d beyond %d sectors", p.Start, b.limit)
		return false
	}
	if p.Length > b.limit-p.Start {
		b.log.Debugf("clipping partition at %d from %d to %d sectors", p.Start, p.Length, b.limit-p.Start)
		p.Length = b.limit - p.Start
	}
	b.append(p)
	return true
}

// append adds p without any bounds handling; callers have checked it.
func (b *builder) append(p Partition) {
	p.Sequence = uint64(len(b.parts))
	p.Scheme = b.scheme
	p.Offset = p.Start * b.sectorSize
	p.Size = p.Length * b.sectorSize
	b.parts = append(b.parts, p)
}

func (b *builder) result() ([]Partition, bool) {
	return b.parts, len(b.parts) > 0
}

// chain bounds a linked on-disk traversal. It stops at the first block seen
// twice and after limit steps.
type chain struct {
	name  string
	limit uint64
	steps uint64
	seen  map[uint64]struct{}
	log   *log.Entry
}

func newChain(logger *log.Entry, name string, limit uint64) *chain {
	return &chain{name: name, limit: limit, seen: make(map[uint64]struct{}), log: logger}
}

// next records a visit to lba and reports whether the walk may read it.
func (c *chain) next(lba uint64) bool {
	if _, ok := c.seen[lba]; ok {
		c.log.Warnf("%s chain loops back to sector %d, stopping", c.name, lba)
		return false
	}
	if c.steps >= c.limit {
		c.log.Warnf("%s chain longer than %d blocks, stopping", c.name, c.limit)
		return false
	}
	c.steps++
	c.seen[lba] = struct{}{}
	return true
}

// scale converts a count of from-byte units into to-byte units, rounding down.
func scale(n, from, to uint64) uint64 {
	if from == to || to == 0 {
		return n
	}
	return n * from / to
}

// relative reports whether addresses stored in a label nested at offset are
// relative to that offset: some used entry would otherwise start before it.
func relative(starts []uint64, offset uint64) bool {
	if offset == 0 {
		return false
	}
	for _, s := range starts {
		if s < offset {
			return true
		}
	}
	return false
}

func sectorsFor(bytes uint64, sectorSize uint32) uint32 {
	ss := uint64(sectorSize)
	return uint32((bytes + ss - 1) / ss)
}

// readBytes reads at least n bytes starting at sector lba.
func readBytes(src sector.Source, lba uint64, n uint64) ([]byte, bool) {
	count := sectorsFor(n, src.Geometry().SectorSize)
	if count == 0 {
		count = 1
	}
	buf, err := src.ReadSectors(lba, count)
	if err != nil {
		return nil, false
	}
	return buf, true
}
