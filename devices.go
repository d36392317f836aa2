package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// DiskInfo represents information about a disk
type DiskInfo struct {
	Path       string
	Size       int64  // Size in bytes, 0 if unavailable
	SizeStr    string // Formatted size string
	SectorSize uint32
	MountInfo  string // Mount point and filesystem info
	Mounted    bool
	DiskType   string // physical, removable, partition or virtual
}

// getDiskListData returns structured disk information. Only Linux lists
// anything.
func getDiskListData() []DiskInfo {
	return getDiskListDataPlatform()
}

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Aliases: []string{"disks"},
		Short:   "list block devices",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			disks := getDiskListData()
			if len(disks) == 0 {
				return errors.New("no block devices found")
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE\tTYPE\tSIZE\tSECTOR\tMOUNT")
			for _, d := range disks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.Path, d.DiskType, d.SizeStr, d.SectorSize, d.MountInfo)
			}
			return w.Flush()
		},
	}
	return cmd
}
