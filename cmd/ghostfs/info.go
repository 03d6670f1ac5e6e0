package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fingon/ghostfs"
)

var infoCmd = &cobra.Command{
	Use:   "info CARRIER",
	Short: "Show capacity and a whole-tree content fingerprint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()

		sv, err := fs.Statvfs()
		if err != nil {
			return err
		}
		fp, err := ghostfs.TreeFingerprint(fs)
		if err != nil {
			return err
		}

		fmt.Printf("blocksize=%d blocks=%d blocksfree=%d\n", sv.BlockSize, sv.Blocks, sv.BlocksFree)
		fmt.Printf("fingerprint=%s\n", fp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
