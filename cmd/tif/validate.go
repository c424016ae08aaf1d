package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tif "github.com/jedharris/text-game-sub000"
	"github.com/jedharris/text-game-sub000/internal/ui"
)

var validateCmd = &cobra.Command{
	Use:   "validate <world-file-or-game-dir>",
	Short: "Check a world file without playing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worldPath, _, err := resolveGame(args[0])
		if err != nil {
			return err
		}
		return runValidate(worldPath)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(worldPath string) error {
	report, err := tif.ValidateFile(worldPath)
	if err != nil {
		return err
	}
	color := ui.ShouldUseColor()
	for _, w := range report.Warnings {
		line := "warning: " + w
		if color {
			line = ui.HintStyle.Render(line)
		}
		fmt.Println(line)
	}
	for _, e := range report.Errors {
		line := "error: " + e
		if color {
			line = ui.ErrorStyle.Render(line)
		}
		fmt.Println(line)
	}
	if !report.OK() {
		return fmt.Errorf("%s: %d error(s), %d warning(s)", worldPath, len(report.Errors), len(report.Warnings))
	}
	fmt.Printf("%s: ok (%d warning(s))\n", worldPath, len(report.Warnings))
	return nil
}
