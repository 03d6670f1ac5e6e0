package main

import "github.com/spf13/cobra"

var mkdirCmd = &cobra.Command{
	Use:   "mkdir CARRIER PATH",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()
		return fs.Mkdir(args[1])
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
