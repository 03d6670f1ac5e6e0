package main

import "github.com/spf13/cobra"

var rmCmd = &cobra.Command{
	Use:   "rm CARRIER PATH",
	Short: "Remove a file or empty directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer fs.Close()
		return fs.Remove(args[1])
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
