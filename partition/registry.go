package partition

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"dskpart/sector"
)

// DefaultMaxDepth bounds Scan when ScanOptions.MaxDepth is zero.
const DefaultMaxDepth = 4

var ErrUnknownScheme = errors.New("unknown partitioning scheme")

// Scheme is one registered decoder.
type Scheme struct {
	Name   string
	Title  string
	ID     uuid.UUID
	Decode DecodeFunc
}

var schemes = []Scheme{
	{gptScheme, "GUID Partition Table", uuid.MustParse("378ae57e-0890-4a4c-ba09-da21ce6fcdcd"), DecodeGPT},
	{mbrScheme, "Master Boot Record", uuid.MustParse("1085d806-c441-4747-aa11-132c2451e8c6"), DecodeMBR},
	{apmScheme, "Apple Partition Map", uuid.MustParse("ff0bf6cf-d493-46a4-a0d2-16fd3b29869d"), DecodeAppleMap},
	{rdbScheme, "Amiga Rigid Disk Block", uuid.MustParse("595d2f3a-f816-40b4-8d9b-fbabc5407492"), DecodeRDB},
	{bsdScheme, "BSD disklabel", uuid.MustParse("375a16bc-d4fb-4daf-911d-319aae2440d0"), DecodeBSD},
	{sunScheme, "Sun disklabel", uuid.MustParse("8f3f6667-03d6-4f12-8836-ebe426523710"), DecodeSun},
	{vtocScheme, "UNIX VTOC", uuid.MustParse("8411338f-8600-43c6-9fd0-cb7b6d2cb768"), DecodeVTOC},
	{acornScheme, "Acorn FileCore partitions", uuid.MustParse("12b29ab6-e0e7-49c4-9f76-9046e3ce54c3"), DecodeAcorn},
	{atariScheme, "Atari partitions", uuid.MustParse("9a901678-8d67-4a38-988a-c8aee59e867d"), DecodeAtari},
	{decScheme, "DEC disklabel", uuid.MustParse("4696acb2-45f8-413f-8261-4c8552cab990"), DecodeDEC},
	{dflyScheme, "DragonFly BSD 64-bit disklabel", uuid.MustParse("d1edc178-dde8-44a6-9b73-76cc199acdc4"), DecodeDragonFly},
	{human68kScheme, "Human 68k partitions", uuid.MustParse("67194d82-c143-49aa-b19c-f53bb8d1b654"), DecodeHuman68k},
	{nextScheme, "NeXT disklabel", uuid.MustParse("ad9130e1-518f-4168-8bbb-8c3ed45566ad"), DecodeNeXT},
	{pc98Scheme, "NEC PC-9800 partition table", uuid.MustParse("61e10a2b-1f11-4cd8-a20c-2adebfc4fd63"), DecodePC98},
	{plan9Scheme, "Plan9 partition table", uuid.MustParse("156e7fc8-2d9d-49fa-b086-cf584d54efa7"), DecodePlan9},
	{karmaScheme, "Rio Karma partitioning", uuid.MustParse("7e832b69-fb52-4b41-b705-59080ed6b566"), DecodeRioKarma},
	{sgiScheme, "SGI Disk Volume Header", uuid.MustParse("0230f3fc-f4c8-44b8-a58d-3c152bf95920"), DecodeSGI},
	{xboxScheme, "Xbox partitioning", uuid.MustParse("afa05e6b-4121-4f7a-afcc-c2c2aed94be8"), DecodeXbox},
	{xenixScheme, "XENIX", uuid.MustParse("750b1ffe-fd24-4beb-b8c0-5415d48b1f41"), DecodeXenix},
}

// Schemes returns the registered decoders in probe order.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes)
	return out
}

// Lookup finds a scheme by name, title or ID, ignoring case.
func Lookup(key string) (Scheme, error) {
	id, idErr := uuid.Parse(key)
	for _, s := range schemes {
		if strings.EqualFold(s.Name, key) || strings.EqualFold(s.Title, key) || (idErr == nil && s.ID == id) {
			return s, nil
		}
	}
	return Scheme{}, errors.Wrapf(ErrUnknownScheme, "%q", key)
}

// Select resolves names to schemes, keeping registry order. No names selects
// every scheme.
func Select(names []string) ([]Scheme, error) {
	if len(names) == 0 {
		return Schemes(), nil
	}
	want := make(map[uuid.UUID]bool, len(names))
	for _, n := range names {
		s, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		want[s.ID] = true
	}
	var out []Scheme
	for _, s := range schemes {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out, nil
}

// Result is the outcome of one scheme recognizing the media at an offset.
type Result struct {
	Scheme     Scheme
	Partitions []Partition
}

// Probe runs every scheme in list against src at offset and returns those
// that recognized it. A nil list probes every registered scheme.
func Probe(src sector.Source, offset uint64, list []Scheme) []Result {
	if list == nil {
		list = schemes
	}
	var out []Result
	for _, s := range list {
		parts, ok := s.Decode(src, offset)
		if !ok {
			continue
		}
		log.WithField("scheme", s.Name).Debugf("recognized at %d with %d partitions", offset, len(parts))
		out = append(out, Result{Scheme: s, Partitions: parts})
	}
	return out
}

// ScanOptions control Scan.
type ScanOptions struct {
	Schemes  []Scheme
	MaxDepth int
}

// Found is one partition located by Scan.
type Found struct {
	Partition
	Depth  int `json:"depth"`  // 0 for the outermost table
	Parent int `json:"parent"` // index into the Scan result, -1 at depth 0
}

// Scan probes src at sector 0 and then inside every partition found, up to
// MaxDepth levels. Partitions that cover exactly their parent are not
// descended into again.
func Scan(src sector.Source, opts ScanOptions) []Found {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	s := &scanner{src: src, list: opts.Schemes, maxDepth: depth}
	s.scan(0, 0, -1, nil)
	return s.found
}

type scanner struct {
	src      sector.Source
	list     []Scheme
	maxDepth int
	found    []Found
}

func (s *scanner) scan(offset uint64, depth, parent int, outer *Partition) {
	if depth >= s.maxDepth {
		return
	}
	// Start is in the decoder's units; nested tables are probed by device sector.
	ss := uint64(s.src.Geometry().SectorSize)
	for _, r := range Probe(s.src, offset, s.list) {
		for _, p := range r.Partitions {
			if outer != nil && p.Offset == outer.Offset && p.Size == outer.Size {
				continue
			}
			s.found = append(s.found, Found{Partition: p, Depth: depth, Parent: parent})
			idx := len(s.found) - 1
			lba := p.Offset / ss
			if lba == offset {
				continue
			}
			child := p
			s.scan(lba, depth+1, idx, &child)
		}
	}
}
