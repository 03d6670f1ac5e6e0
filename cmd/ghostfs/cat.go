package main

import (
	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:   "cat CARRIER PATH",
	Short: "Print a file's content to stdout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()

		fh, err := fs.Open(args[1])
		if err != nil {
			return err
		}
		buf := make([]byte, fh.Size())
		if _, err := fh.ReadAt(buf, 0); err != nil {
			return err
		}
		_, err = os.Stdout.Write(buf)
		return err
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
