package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fingon/ghostfs"
)

var putCmd = &cobra.Command{
	Use:   "put CARRIER PATH LOCALFILE",
	Short: "Write a local file's content into the image",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()

		data, err := os.ReadFile(args[2])
		if err != nil {
			return err
		}

		fh, err := fs.Open(args[1])
		if ghostfs.IsKind(err, ghostfs.KindNotFound) {
			fh, err = fs.Create(args[1])
		}
		if err != nil {
			return err
		}
		_, err = fh.WriteAt(data, 0)
		return err
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
