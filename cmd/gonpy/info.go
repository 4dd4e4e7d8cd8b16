package main

import (
	"encoding/json"
	"fmt"
	"os"

	krpretty "github.com/kr/pretty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gonpy/header"
)

// infoView is the JSON/YAML-friendly projection of header.Header; the
// dtype and order are rendered through their String() methods rather than
// their raw enum values so scripted consumers don't need this module's
// internal numbering.
type infoView struct {
	Dtype string `json:"dtype" yaml:"dtype"`
	Order string `json:"order" yaml:"order"`
	Shape []int  `json:"shape" yaml:"shape"`
	Major byte   `json:"major" yaml:"major"`
	Minor byte   `json:"minor" yaml:"minor"`
}

func newInfoCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print a .npy file's header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			h, _, err := header.ReadFromSlice(buf)
			if err != nil {
				return err
			}

			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				log.Debug("parsed header")
				krpretty.Println(h)
			}

			view := infoView{
				Dtype: h.Dtype.String(),
				Order: h.Order.String(),
				Shape: h.Shape,
				Major: h.Major,
				Minor: h.Minor,
			}

			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			case "yaml":
				out, err := yaml.Marshal(view)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
				return nil
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "dtype: %s\norder: %s\nshape: %v\nversion: %d.%d\n",
					view.Dtype, view.Order, view.Shape, view.Major, view.Minor)
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text, json, yaml")
	return cmd
}
