package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/jedharris/text-game-sub000/internal/ui"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Manage save slots for a game",
}

var savesListCmd = &cobra.Command{
	Use:   "list <world-file-or-game-dir>",
	Short: "List save slots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, _ := cmd.Flags().GetString("save-backend")
		return runSavesList(args[0], backend)
	},
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <world-file-or-game-dir> <slot>",
	Short: "Delete a save slot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, _ := cmd.Flags().GetString("save-backend")
		force, _ := cmd.Flags().GetBool("force")
		return runSavesDelete(args[0], args[1], backend, force)
	},
}

func init() {
	savesListCmd.Flags().String("save-backend", "", "save backend: file or sqlite")
	savesDeleteCmd.Flags().String("save-backend", "", "save backend: file or sqlite")
	savesDeleteCmd.Flags().Bool("force", false, "delete without confirmation")
	savesCmd.AddCommand(savesListCmd)
	savesCmd.AddCommand(savesDeleteCmd)
	rootCmd.AddCommand(savesCmd)
}

func runSavesList(arg, backend string) error {
	worldPath, manifest, err := resolveGame(arg)
	if err != nil {
		return err
	}
	store, err := openStore(worldPath, manifest, backend)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	slots, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No saves yet.")
		return nil
	}
	color := ui.ShouldUseColor()
	for _, slot := range slots {
		name := slot.Name
		if color {
			name = ui.TitleStyle.Render(name)
		}
		fmt.Printf("%s  turn %d  %s  %s\n", name, slot.TurnCount,
			slot.UpdatedAt.Local().Format("2006-01-02 15:04"), slot.Title)
	}
	return nil
}

func runSavesDelete(arg, slot, backend string, force bool) error {
	worldPath, manifest, err := resolveGame(arg)
	if err != nil {
		return err
	}
	store, err := openStore(worldPath, manifest, backend)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if !force && ui.IsTerminal() {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete save slot %q?", slot)).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}
	if err := store.Delete(context.Background(), slot); err != nil {
		return err
	}
	fmt.Printf("Deleted %q.\n", slot)
	return nil
}
