package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"dskpart/partition"
)

// listing is what list prints, as text or JSON.
type listing struct {
	Path        string            `json:"path"`
	Compression string            `json:"compression,omitempty"`
	SectorSize  uint32            `json:"sector_size"`
	Sectors     uint64            `json:"sectors"`
	Bytes       uint64            `json:"bytes"`
	Media       string            `json:"media"`
	Offset      uint64            `json:"offset"`
	Tables      []table           `json:"tables,omitempty"`
	Nested      []partition.Found `json:"nested,omitempty"`
}

type table struct {
	Scheme     string                `json:"scheme"`
	Title      string                `json:"title"`
	ID         string                `json:"id"`
	Partitions []partition.Partition `json:"partitions"`
}

const listTmpl = `{{.Path}}: {{.Sectors}} sectors of {{.SectorSize}} bytes ({{bytes .Bytes}}), {{.Media}} media{{with .Compression}}, {{.}} compressed{{end}}
{{- range .Tables}}

{{.Title}} ({{.Scheme}}){{if $.Offset}} at sector {{$.Offset}}{{end}}
 #	START	LENGTH	SIZE	TYPE	NAME	DESCRIPTION
{{- range .Partitions}}
 {{.Sequence}}	{{.Start}}	{{.Length}}	{{bytes .Size}}	{{.Type}}	{{.Name}}	{{.Description}}
{{- end}}
{{- end}}
{{- with .Nested}}

 #	PARENT	SCHEME	START	LENGTH	SIZE	TYPE	NAME
{{- range $i, $f := .}}
 {{indent $f.Depth}}{{$i}}	{{parent $f.Parent}}	{{$f.Scheme}}	{{$f.Start}}	{{$f.Length}}	{{bytes $f.Size}}	{{$f.Type}}	{{$f.Name}}
{{- end}}
{{- end}}
`

var listTemplate = template.Must(template.New("list").Funcs(template.FuncMap{
	"bytes": formatBytes[uint64],
	"indent": func(depth int) string {
		return strings.Repeat("  ", depth)
	},
	"parent": func(i int) string {
		if i < 0 {
			return "-"
		}
		return fmt.Sprint(i)
	},
}).Parse(listTmpl))

// buildListing decodes src at offset with every scheme in list, or scans it
// recursively when nested is set.
func buildListing(img *image, list []partition.Scheme, offset uint64, nested bool, depth int) (listing, error) {
	g := img.Geometry()
	l := listing{
		Path:        img.Path,
		Compression: img.Compression,
		SectorSize:  g.SectorSize,
		Sectors:     g.Sectors,
		Bytes:       g.Bytes(),
		Media:       g.Media.String(),
		Offset:      offset,
	}
	if nested {
		l.Nested = partition.Scan(img, partition.ScanOptions{Schemes: list, MaxDepth: depth})
		if len(l.Nested) == 0 {
			return l, errors.Errorf("%s: no partition table recognized", img.Path)
		}
		return l, nil
	}
	if offset >= g.Sectors {
		return l, errors.Errorf("offset %d is beyond the %d sectors of %s", offset, g.Sectors, img.Path)
	}
	for _, r := range partition.Probe(img, offset, list) {
		l.Tables = append(l.Tables, table{
			Scheme:     r.Scheme.Name,
			Title:      r.Scheme.Title,
			ID:         r.Scheme.ID.String(),
			Partitions: r.Partitions,
		})
	}
	if len(l.Tables) == 0 {
		return l, errors.Errorf("%s: no partition table recognized at sector %d", img.Path, offset)
	}
	return l, nil
}

func writeListing(w io.Writer, l listing, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := listTemplate.Execute(tw, l); err != nil {
		return errors.Wrap(err, "render listing")
	}
	return tw.Flush()
}

func listCmd(opts *globalOptions) *cobra.Command {
	var (
		schemes []string
		offset  uint64
		asJSON  bool
		nested  bool
		depth   int
	)
	cmd := &cobra.Command{
		Use:     "list IMAGE",
		Aliases: []string{"l", "partitions"},
		Short:   "decode the partition tables of an image or device",
		Long: `Decode the partition tables of an image or device.
Every scheme is tried at --offset and each one that recognizes the media is
printed. With --nested the partitions found are probed again, so a BSD
disklabel inside an MBR slice is listed under it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(schemes) == 0 {
				schemes = opts.cfg.Schemes
			}
			list, err := partition.Select(schemes)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("depth") {
				depth = opts.cfg.MaxDepth
			}
			img, err := opts.open(args[0])
			if err != nil {
				return err
			}
			defer img.Close()

			l, err := buildListing(img, list, offset, nested, depth)
			if err != nil {
				return err
			}
			return writeListing(cmd.OutOrStdout(), l, asJSON || opts.cfg.Output == "json")
		},
	}
	cmd.Flags().StringSliceVarP(&schemes, "scheme", "s", nil, "Only try these schemes (name, title or ID)")
	cmd.Flags().Uint64Var(&offset, "offset", 0, "Sector to decode at")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.Flags().BoolVar(&nested, "nested", false, "Probe inside every partition found")
	cmd.Flags().IntVar(&depth, "depth", partition.DefaultMaxDepth, "Nesting limit for --nested")
	return cmd
}

func schemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "list the partitioning schemes that can be decoded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTITLE\tID")
			for _, s := range partition.Schemes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.Title, s.ID)
			}
			return w.Flush()
		},
	}
}
