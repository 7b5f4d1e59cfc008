package main

import (
	"fmt"
	"io"
	"os"

	peheader "github.com/ianatha/go-peheader"
	"github.com/ianatha/go-peheader/dump"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	output  string
	maxSize int64
	self    bool
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "peheader-tool [flags] <binary.exe>",
		Short: "Print the DOS and NT headers of a PE image",
		Long: `peheader-tool decodes the MS-DOS header, MS-DOS stub and NT headers
(file header, optional header and data directories) of a Windows PE image and
prints every field in hexadecimal.

Example:
  peheader-tool notepad.exe
  peheader-tool --output json kernel32.dll
  peheader-tool --self`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.self {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().Int64Var(&opts.maxSize, "max-size", peheader.DefaultMaxSize, "Refuse files larger than this many bytes")
	cmd.Flags().BoolVar(&opts.self, "self", false, "Inspect this executable instead of a file argument")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func run(w io.Writer, opts *options, args []string) error {
	if opts.verbose {
		log.SetLevel(log.DebugLevel)
	}

	write, err := writerFor(opts.output)
	if err != nil {
		return err
	}

	var img *peheader.Image
	if opts.self {
		log.Debug("inspecting own executable")
		img, err = peheader.OpenSelf(opts.maxSize)
	} else {
		log.WithField("path", args[0]).Debug("inspecting file")
		img, err = peheader.Open(args[0], opts.maxSize)
	}
	if err != nil {
		log.WithField("kind", peheader.Kind(err)).Debug("decode failed")
		return err
	}

	oh := &img.NTHeaders.OptionalHeader
	log.WithFields(log.Fields{
		"stub":        len(img.DOSStub),
		"pe32plus":    oh.Is64(),
		"directories": len(oh.DataDirectory),
	}).Debug("decoded headers")

	return write(w, img)
}

func writerFor(format string) (func(io.Writer, *peheader.Image) error, error) {
	switch format {
	case "text":
		return dump.Text, nil
	case "json":
		return dump.JSON, nil
	case "yaml":
		return dump.YAML, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
