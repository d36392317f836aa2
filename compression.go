package main

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/gosuri/uilive"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var compressionAlgorithms = []string{"gzip", "zlib", "bzip2", "snappy", "s2", "zstd", "zip"}

// getCompressionExtension returns the file extension for a given compression algorithm
func getCompressionExtension(algorithm string) (string, error) {
	switch algorithm {
	case "gzip":
		return ".gz", nil
	case "zlib":
		return ".zlib", nil
	case "bzip2":
		return ".bz2", nil
	case "snappy":
		return ".snappy", nil
	case "s2":
		return ".s2", nil
	case "zstd":
		return ".zst", nil
	case "zip":
		return ".zip", nil
	default:
		return "", errors.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

var streamMagics = []struct {
	algorithm string
	magic     []byte
}{
	{"gzip", []byte{0x1F, 0x8B}},
	{"zstd", []byte{0x28, 0xB5, 0x2F, 0xFD}},
	{"bzip2", []byte("BZh")},
	{"snappy", []byte("\xff\x06\x00\x00sNaPpY")},
	{"s2", []byte("\xff\x06\x00\x00S2sTwO")},
	{"zip", []byte("PK\x03\x04")},
}

// detectCompression names the codec of an image from its first bytes, falling
// back to the file extension for zlib, which has no reliable magic. An empty
// result means a raw image.
func detectCompression(head []byte, path string) string {
	for _, m := range streamMagics {
		if bytes.HasPrefix(head, m.magic) {
			return m.algorithm
		}
	}
	if strings.EqualFold(filepath.Ext(path), ".zlib") {
		return "zlib"
	}
	return ""
}

// createCompressionWriter creates a compression writer based on the algorithm.
// For zip it also returns the archive writer, which must be closed last.
func createCompressionWriter(algorithm string, output io.Writer) (io.Writer, *zip.Writer, error) {
	switch algorithm {
	case "gzip":
		return gzip.NewWriter(output), nil, nil
	case "zlib":
		return zlib.NewWriter(output), nil, nil
	case "bzip2":
		writer, err := bzip2.NewWriter(output, &bzip2.WriterConfig{})
		return writer, nil, err
	case "snappy":
		return snappy.NewBufferedWriter(output), nil, nil
	case "s2":
		return s2.NewWriter(output), nil, nil
	case "zstd":
		writer, err := zstd.NewWriter(output)
		return writer, nil, err
	case "zip":
		zipWriter := zip.NewWriter(output)
		zipFile, err := zipWriter.Create("image")
		if err != nil {
			_ = zipWriter.Close()
			return nil, nil, errors.Wrap(err, "failed to create zip entry")
		}
		return zipFile, zipWriter, nil
	default:
		return nil, nil, errors.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

// createDecompressionReader opens the stream of a compressed image. Zip
// archives need random access and yield their first file.
func createDecompressionReader(algorithm string, input io.ReaderAt, size int64) (io.ReadCloser, error) {
	stream := io.NewSectionReader(input, 0, size)
	switch algorithm {
	case "gzip":
		return gzip.NewReader(stream)
	case "zlib":
		return zlib.NewReader(stream)
	case "bzip2":
		return bzip2.NewReader(stream, &bzip2.ReaderConfig{})
	case "snappy":
		return io.NopCloser(snappy.NewReader(stream)), nil
	case "s2":
		return io.NopCloser(s2.NewReader(stream)), nil
	case "zstd":
		dec, err := zstd.NewReader(stream)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case "zip":
		zr, err := zip.NewReader(input, size)
		if err != nil {
			return nil, err
		}
		for _, f := range zr.File {
			if f.FileInfo().IsDir() {
				continue
			}
			return f.Open()
		}
		return nil, errors.New("zip archive holds no file")
	default:
		return nil, errors.Errorf("unsupported compression algorithm: %s", algorithm)
	}
}

type countingWriter struct {
	w     io.Writer
	count int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.count += int64(n)
	return n, err
}

// progress reports a copy once a second through uilive. A nil *progress
// reports nothing.
type progress struct {
	writer     *uilive.Writer
	label      string
	total      int64
	start      time.Time
	lastUpdate time.Time
}

func newProgress(out io.Writer, label string, total int64) *progress {
	if out == nil {
		return nil
	}
	w := uilive.New()
	w.Out = out
	w.Start()
	now := time.Now()
	return &progress{writer: w, label: label, total: total, start: now, lastUpdate: now}
}

func (p *progress) update(read, written int64, final bool) {
	if p == nil || (!final && time.Since(p.lastUpdate) < time.Second) {
		return
	}
	elapsed := time.Since(p.start)
	secs := elapsed.Seconds()
	estimate := "N/A"
	if p.total > 0 && read > 0 && secs > 0 {
		rate := float64(read) / secs
		estimate = formatRemaining(time.Duration(float64(p.total-read) / rate * float64(time.Second)))
	}
	var readBps, writeBps float64
	if secs > 0 {
		readBps, writeBps = float64(read)/secs, float64(written)/secs
	}
	_, _ = io.WriteString(p.writer, p.label+"\n")
	_, _ = io.WriteString(p.writer, "Byte Count: Read: "+formatBytes(read)+", Written: "+formatBytes(written)+"\n")
	_, _ = io.WriteString(p.writer, "Elapsed Time: "+elapsed.Truncate(time.Second).String()+", Estimated Time: "+estimate+"\n")
	_, _ = io.WriteString(p.writer, "Read Speed: "+formatSpeed(readBps)+", Write Speed: "+formatSpeed(writeBps)+"\n")
	_ = p.writer.Flush()
	p.lastUpdate = time.Now()
}

func (p *progress) stop() {
	if p != nil {
		p.writer.Stop()
	}
}

// copyWithProgress copies src into dst in 16 KiB blocks. written counts bytes
// as they reach their final destination, which for compressed output is the
// file under the codec.
func copyWithProgress(dst io.Writer, src io.Reader, p *progress, written func() int64) (int64, error) {
	var (
		read int64
		buf  = make([]byte, 16384)
	)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, wErr := dst.Write(buf[:n]); wErr != nil {
				return read, errors.Wrap(wErr, "write")
			}
			read += int64(n)
			p.update(read, written(), false)
		}
		if err == io.EOF {
			p.update(read, written(), true)
			return read, nil
		}
		if err != nil {
			return read, errors.Wrap(err, "read")
		}
	}
}

// compressFromReader writes src to outputfile plus the codec's extension.
// It returns the final name and the raw and compressed byte counts.
func compressFromReader(src io.Reader, outputfile, algorithm string, totalSize int64, out io.Writer) (string, int64, int64, error) {
	extension, err := getCompressionExtension(algorithm)
	if err != nil {
		return "", 0, 0, err
	}
	if !strings.HasSuffix(outputfile, extension) {
		outputfile += extension
	}
	output, err := os.Create(outputfile)
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "failed to create output file")
	}
	defer func() {
		_ = output.Close()
	}()

	cw := &countingWriter{w: output}
	compressedWriter, zipWriter, err := createCompressionWriter(algorithm, cw)
	if err != nil {
		return "", 0, 0, errors.Wrap(err, "failed to create compression writer")
	}

	p := newProgress(out, "Writing to Image: "+outputfile, totalSize)
	read, err := copyWithProgress(compressedWriter, src, p, func() int64 { return cw.count })
	p.stop()
	if err != nil {
		return "", read, cw.count, err
	}

	if zipWriter != nil {
		err = zipWriter.Close()
	} else if wc, ok := compressedWriter.(io.WriteCloser); ok {
		err = wc.Close()
	}
	if err != nil {
		return "", read, cw.count, errors.Wrap(err, "failed to finish compressed stream")
	}
	return outputfile, read, cw.count, nil
}
