package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls CARRIER [PATH]",
	Short: "List a directory's contents",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()

		path := "/"
		if len(args) > 1 {
			path = args[1]
		}
		dh, err := fs.Opendir(path)
		if err != nil {
			return err
		}
		for {
			e, ok, err := dh.NextEntry()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			kind := "f"
			if e.IsDir {
				kind = "d"
			}
			fmt.Printf("%s %8d %s\n", kind, e.Size, e.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
