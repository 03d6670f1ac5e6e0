// Command ghostfs inspects and manipulates GhostFS images hidden inside
// BMP or WAV carrier files.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fingon/ghostfs/internal/obslog"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "ghostfs",
	Short: "Inspect and edit filesystems hidden inside carrier media",
}

func main() {
	obslog.SetOutput(os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
