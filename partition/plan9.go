package partition

import (
	"bytes"
	"strconv"
	"strings"

	"dskpart/sector"
)

const plan9Scheme = "plan9"

// DecodePlan9 reads the textual Plan 9 partition table in the sector after
// offset: one "part name start end" line per partition, end exclusive.
func DecodePlan9(src sector.Source, offset uint64) ([]Partition, bool) {
	g := src.Geometry()
	if offset+1 >= g.Sectors {
		return nil, false
	}
	buf, err := src.ReadSector(offset + 1)
	if err != nil {
		return nil, false
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	b := newBuilder(plan9Scheme, src)
	for _, line := range strings.Split(string(buf), "\n") {
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		if len(f) != 4 || f[0] != "part" {
			break
		}
		start, err1 := strconv.ParseUint(f[2], 10, 64)
		end, err2 := strconv.ParseUint(f[3], 10, 64)
		if err1 != nil || err2 != nil || end <= start {
			b.log.Debugf("bad partition line %q", line)
			break
		}
		b.add(Partition{
			Start:  offset + start,
			Length: end - start,
			Type:   "Plan 9",
			Name:   f[1],
		})
	}
	return b.result()
}
