package sector

// Memory is a Source over an in-memory image. Returned buffers are copies, so
// callers may keep or modify them.
type Memory struct {
	data []byte
	geo  Geometry
}

// NewMemory wraps data. A zero g.Sectors is derived from the data length.
func NewMemory(data []byte, g Geometry) (*Memory, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	maxSectors := uint64(len(data)) / uint64(g.SectorSize)
	if g.Sectors == 0 || g.Sectors > maxSectors {
		g.Sectors = maxSectors
	}
	return &Memory{data: data, geo: g}, nil
}

func (m *Memory) ReadSector(lba uint64) ([]byte, error) {
	return m.ReadSectors(lba, 1)
}

func (m *Memory) ReadSectors(lba uint64, count uint32) ([]byte, error) {
	if err := checkRange(m.geo, lba, count); err != nil {
		return nil, err
	}
	ss := uint64(m.geo.SectorSize)
	out := make([]byte, uint64(count)*ss)
	copy(out, m.data[lba*ss:])
	return out, nil
}

func (m *Memory) Geometry() Geometry {
	return m.geo
}
