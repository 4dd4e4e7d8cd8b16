package main

import (
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"gonpy"
)

func newConvertCmd() *cobra.Command {
	var orderFlag string

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Round-trip a .npy file, optionally changing its memory order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			order, err := parseOrder(orderFlag)
			if err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			log.WithField("order", orderFlag).Info("converting")
			return convertBuf(buf, out, order)
		},
	}

	cmd.Flags().StringVar(&orderFlag, "order", "C", "target memory order: C or F")
	return cmd
}

// parseOrder accepts "C", "c", "row" and "rowmajor" for row-major and
// "F", "f", "col", "colmajor" and "fortran" for column-major, after
// passing the value through cast.ToString. Any other spelling, including
// numeric ones such as 0/1, is rejected with errUnknownOrder.
func parseOrder(s string) (gonpy.Order, error) {
	switch cast.ToString(s) {
	case "C", "c", "row", "rowmajor":
		return gonpy.RowMajor, nil
	case "F", "f", "col", "colmajor", "fortran":
		return gonpy.ColumnMajor, nil
	default:
		return 0, errUnknownOrder(s)
	}
}

type errUnknownOrder string

func (e errUnknownOrder) Error() string {
	return "gonpy: unknown --order value " + string(e)
}
