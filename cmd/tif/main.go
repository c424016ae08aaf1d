// Command tif hosts the interactive-fiction engine: play a world file in
// the terminal, serve the JSON protocol over a unix socket, validate world
// files, and manage save slots.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jedharris/text-game-sub000/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tif",
	Short: "Data-driven interactive-fiction engine",
	Long: `tif runs games described by a JSON or YAML world file plus behavior
modules. The engine itself is a library; this command is the reference host.

Examples:
  tif play game/world.json          # Play in the terminal
  tif play game/                    # Play a game directory (tif.toml manifest)
  tif serve game/world.json         # Serve the JSON protocol on a unix socket
  tif validate game/world.json      # Check a world file without playing
  tif vocab game/world.json         # Print the merged parser vocabulary
  tif saves list game/              # Manage save slots
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Initialize()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
