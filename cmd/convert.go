package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/geoscene/internal/shapefile"
)

var convertOut string

func init() {
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file (stdout if omitted)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <shapefile>",
	Short: "Convert a shapefile to a GeoJSON FeatureCollection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := shapefile.Convert(args[0])
		if err != nil {
			return err
		}

		if convertOut == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}
		if err := os.WriteFile(convertOut, data, 0o644); err != nil {
			return eris.Wrap(err, "write output")
		}
		return nil
	},
}
