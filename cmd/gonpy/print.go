package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gonpy/pretty"
)

func newPrintCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Pretty-print a .npy file's array contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			opts, err := loadPrintOptions(cfgPath)
			if err != nil {
				return err
			}

			out, err := printBuf(buf, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a .gonpy.toml printer-tunables file")
	return cmd
}

// loadPrintOptions turns the optional TOML tunables file into pretty
// print Options; an empty path or a missing file yields no overrides, so
// pretty.DefaultLimits applies unchanged.
func loadPrintOptions(path string) ([]pretty.Option, error) {
	cfg, ok, err := loadPrinterConfig(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var opts []pretty.Option
	if cfg.StackedAxis > 0 {
		opts = append(opts, pretty.WithStackedAxis(cfg.StackedAxis))
	}
	if cfg.Columns > 0 {
		opts = append(opts, pretty.WithColumns(cfg.Columns))
	}
	if cfg.Rows > 0 {
		opts = append(opts, pretty.WithRows(cfg.Rows))
	}
	if cfg.Threshold > 0 {
		opts = append(opts, pretty.WithThreshold(cfg.Threshold))
	}
	return opts, nil
}
