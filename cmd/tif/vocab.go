package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	tif "github.com/jedharris/text-game-sub000"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab <world-file-or-game-dir>",
	Short: "Print the merged parser vocabulary as JSON",
	Long: `vocab loads the world, merges every registered module's vocabulary
contributions with the base word lists, and prints the result. External
parsers consume this document instead of hard-coding word lists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worldPath, _, err := resolveGame(args[0])
		if err != nil {
			return err
		}
		engine, err := tif.Open(worldPath, tif.Options{})
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(engine.VocabularyDocument(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}
