package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// hexDump writes buf in the classic 16 bytes per row layout, with addresses
// counted from base.
func hexDump(w io.Writer, buf []byte, base uint64) error {
	for i := 0; i < len(buf); i += 16 {
		var hexStr, charStr strings.Builder
		for j := 0; j < 16 && i+j < len(buf); j++ {
			b := buf[i+j]
			fmt.Fprintf(&hexStr, "%02X ", b)
			if j == 7 {
				hexStr.WriteByte(' ')
			}
			if isPrintable(b) {
				charStr.WriteByte(b)
			} else {
				charStr.WriteByte('.')
			}
		}
		if _, err := fmt.Fprintf(w, "%08X  %-49s  |%s|\n", base+uint64(i), hexStr.String(), charStr.String()); err != nil {
			return err
		}
	}
	return nil
}

func dumpCmd(opts *globalOptions) *cobra.Command {
	var (
		lba   uint64
		count uint32
	)
	cmd := &cobra.Command{
		Use:     "dump IMAGE",
		Aliases: []string{"d"},
		Short:   "hex dump sectors of an image or device",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			g := img.Geometry()
			buf, err := img.ReadSectors(lba, count)
			if err != nil {
				return errors.Wrapf(err, "read %d sectors at %d", count, lba)
			}
			return hexDump(cmd.OutOrStdout(), buf, lba*uint64(g.SectorSize))
		},
	}
	cmd.Flags().Uint64Var(&lba, "sector", 0, "First sector")
	cmd.Flags().Uint32VarP(&count, "count", "n", 1, "Number of sectors")
	return cmd
}
