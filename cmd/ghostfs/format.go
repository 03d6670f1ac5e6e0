package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fingon/ghostfs"
)

var formatCmd = &cobra.Command{
	Use:   "format CARRIER",
	Short: "Carve a fresh, empty GhostFS image into an existing carrier file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var fs *ghostfs.FS
		var err error
		switch carrierExt(path) {
		case ".bmp":
			fs, err = ghostfs.FormatBMPImage(path)
		case ".wav":
			fs, err = ghostfs.FormatWAVImage(path)
		default:
			return fmt.Errorf("unrecognized carrier extension for %q", path)
		}
		if err != nil {
			return err
		}
		defer fs.Close()

		sv, err := fs.Statvfs()
		if err != nil {
			return err
		}
		log.Infof("formatted %s with %d clusters of %d bytes", path, sv.Blocks, sv.BlockSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
