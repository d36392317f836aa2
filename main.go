package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var appversion = "0.5.0"

// globalOptions are the persistent flags merged over the config file.
type globalOptions struct {
	configPath string
	verbose    bool
	sectorSize uint32
	optical    bool
	cfg        Config
}

func newCmd() *cobra.Command {
	opts := &globalOptions{cfg: defaultConfig()}
	cmd := &cobra.Command{
		Use:               "dskpart",
		Short:             "Decode partition tables in disk images and devices",
		Version:           appversion,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("config")
			path := opts.configPath
			if !explicit {
				path = defaultConfigPath()
			}
			cfg, err := readConfig(path, explicit)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("sector-size") {
				cfg.SectorSize = opts.sectorSize
			}
			if cmd.Flags().Changed("optical") {
				cfg.Optical = opts.optical
			}
			opts.cfg = cfg
			return setupLogging(cfg.LogLevel, opts.verbose)
		},
	}

	cmd.AddCommand(listCmd(opts))
	cmd.AddCommand(schemesCmd())
	cmd.AddCommand(dumpCmd(opts))
	cmd.AddCommand(browseCmd(opts))
	cmd.AddCommand(devicesCmd())
	cmd.AddCommand(imageCmd(opts))

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/dskpart/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log decoder activity at debug level")
	cmd.PersistentFlags().Uint32Var(&opts.sectorSize, "sector-size", 0, "Sector size in bytes; 0 asks the device, or 512 for image files")
	cmd.PersistentFlags().BoolVar(&opts.optical, "optical", false, "Treat the media as optical (2048-byte sectors holding 512-byte tables)")
	return cmd
}

// progressOut is where long copies report progress: stderr, when it is a
// terminal.
func progressOut() io.Writer {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return os.Stderr
	}
	return nil
}

func (o *globalOptions) open(path string) (*image, error) {
	return openImage(path, imageOptions{
		SectorSize: o.cfg.SectorSize,
		Optical:    o.cfg.Optical,
		MaxInflate: o.cfg.MaxInflate,
		Progress:   progressOut(),
	})
}

func main() {
	if err := newCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
