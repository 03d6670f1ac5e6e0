package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat CARRIER PATH",
	Short: "Show metadata for a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()

		attr, err := fs.Getattr(args[1])
		if err != nil {
			return err
		}
		fmt.Printf("isdir=%v size=%d\n", attr.IsDir, attr.Size)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statCmd)
}
