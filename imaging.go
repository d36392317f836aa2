package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dskpart/sector"
)

// sourceReader streams a sector source from its first sector.
type sourceReader struct {
	src     sector.Source
	next    uint64
	pending []byte
}

const readChunk = 64

func (r *sourceReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		g := r.src.Geometry()
		if r.next >= g.Sectors {
			return 0, io.EOF
		}
		count := uint64(readChunk)
		if left := g.Sectors - r.next; left < count {
			count = left
		}
		buf, err := r.src.ReadSectors(r.next, uint32(count))
		if err != nil {
			return 0, err
		}
		r.next += count
		r.pending = buf
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func imageCmd(opts *globalOptions) *cobra.Command {
	var algorithm string
	cmd := &cobra.Command{
		Use:     "image SOURCE OUTPUT",
		Aliases: []string{"i"},
		Short:   "write a compressed image of a device or image",
		Long: fmt.Sprintf(`Write a compressed image of a device or image.
The codec's extension is appended to OUTPUT. Codecs: %s.`, strings.Join(compressionAlgorithms, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := getCompressionExtension(algorithm); err != nil {
				return err
			}
			img, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			total := int64(img.Geometry().Bytes())
			name, read, written, err := compressFromReader(&sourceReader{src: img}, args[1], algorithm, total, progressOut())
			if err != nil {
				return errors.Wrapf(err, "image %s", args[0])
			}
			ratio := "N/A"
			if written > 0 {
				ratio = fmt.Sprintf("%.2f:1", float64(read)/float64(written))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s, %s (%d bytes) from %s, compression ratio %s\n",
				name, formatBytes(written), read, args[0], ratio)
			return nil
		},
	}
	cmd.Flags().StringVarP(&algorithm, "compress", "c", "gzip", "Compression codec")
	return cmd
}
