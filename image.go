package main

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"dskpart/sector"
)

// imageOptions control how an image file or block device is opened.
type imageOptions struct {
	SectorSize uint32 // 0 asks the device; files default to 512
	Optical    bool
	MaxInflate int64 // 0 means no limit
	Progress   io.Writer
}

// image is an opened disk image or block device.
type image struct {
	sector.Source
	Path        string
	Compression string
	Device      bool
	closer      io.Closer
}

func (i *image) Close() error {
	if i.closer == nil {
		return nil
	}
	return i.closer.Close()
}

// openImage opens path as a sector source. Block devices are read in place
// with the sector size the kernel reports, raw images through the file, and
// compressed images are inflated into memory first.
func openImage(path string, opts imageOptions) (*image, error) {
	f, err := os.Open(path)
	if os.IsPermission(err) {
		return nil, errors.Wrapf(err, "no permission to read %s, try with elevated privileges", path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open image")
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	img := &image{Path: path}
	ss := opts.SectorSize
	var size uint64
	mode := info.Mode()
	switch {
	case mode&os.ModeCharDevice != 0:
		_ = f.Close()
		return nil, errors.Errorf("%s is a character device, not a block device", path)
	case mode&os.ModeDevice != 0:
		devSectorSize, devSize, err := deviceGeometry(f)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "query %s", path)
		}
		if ss == 0 {
			ss = devSectorSize
		}
		size = devSize
		img.Device = true
	case !mode.IsRegular():
		_ = f.Close()
		return nil, errors.Errorf("%s is not a regular file or block device", path)
	default:
		size = uint64(info.Size())
		head := make([]byte, 16)
		n, _ := f.ReadAt(head, 0)
		if algorithm := detectCompression(head[:n], path); algorithm != "" {
			defer f.Close()
			data, err := inflate(f, info.Size(), algorithm, path, opts)
			if err != nil {
				return nil, err
			}
			if ss == 0 {
				ss = 512
			}
			mem, err := sector.NewMemory(data, imageGeometry(uint64(len(data)), ss, opts.Optical))
			if err != nil {
				return nil, err
			}
			img.Source = mem
			img.Compression = algorithm
			log.Debugf("inflated %s image %s to %d bytes", algorithm, path, len(data))
			return img, nil
		}
	}

	if ss == 0 {
		ss = 512
	}
	src, err := sector.NewFile(f, imageGeometry(size, ss, opts.Optical))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	img.Source = src
	img.closer = src
	return img, nil
}

func imageGeometry(size uint64, sectorSize uint32, optical bool) sector.Geometry {
	g := sector.GuessGeometry(size, sectorSize)
	if optical {
		g.Media = sector.MediaOptical
	}
	return g
}

func inflate(f *os.File, size int64, algorithm, path string, opts imageOptions) ([]byte, error) {
	rc, err := createDecompressionReader(algorithm, f, size)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s stream", algorithm)
	}
	defer rc.Close()

	var r io.Reader = rc
	if opts.MaxInflate > 0 {
		r = io.LimitReader(rc, opts.MaxInflate+1)
	}
	var buf bytes.Buffer
	cw := &countingWriter{w: &buf}
	p := newProgress(opts.Progress, "Inflating "+path, 0)
	_, err = copyWithProgress(cw, r, p, func() int64 { return cw.count })
	p.stop()
	if err != nil {
		return nil, errors.Wrapf(err, "inflate %s", path)
	}
	if opts.MaxInflate > 0 && cw.count > opts.MaxInflate {
		return nil, errors.Errorf("%s inflates to more than %s", path, formatBytes(opts.MaxInflate))
	}
	return buf.Bytes(), nil
}
