package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fingon/ghostfs"
)

var fsckCmd = &cobra.Command{
	Use:   "fsck CARRIER",
	Short: "Mount, walk the whole tree, and report chain-length inconsistencies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()

		report, err := ghostfs.Fsck(fs)
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fsckCmd)
}
