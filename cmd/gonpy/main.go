// Command gonpy inspects, prints and converts .npy files.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		log.WithError(err).Error("gonpy failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:   "gonpy",
		Short: "Inspect, print and convert NumPy .npy files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging and struct dumps")

	root.AddCommand(newInfoCmd(), newPrintCmd(), newConvertCmd())
	return root
}
