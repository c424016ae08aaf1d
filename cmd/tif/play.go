package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	tif "github.com/jedharris/text-game-sub000"
	"github.com/jedharris/text-game-sub000/internal/config"
	"github.com/jedharris/text-game-sub000/internal/debug"
	"github.com/jedharris/text-game-sub000/internal/narrate"
	"github.com/jedharris/text-game-sub000/internal/storage"
	"github.com/jedharris/text-game-sub000/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play <world-file-or-game-dir>",
	Short: "Play a game in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		narrateFlag, _ := cmd.Flags().GetBool("narrate")
		backend, _ := cmd.Flags().GetString("save-backend")
		return runPlay(args[0], narrateFlag, backend)
	},
}

func init() {
	playCmd.Flags().Bool("narrate", false, "narrate replies with the Anthropic API")
	playCmd.Flags().String("save-backend", "", "save backend: file or sqlite")
	rootCmd.AddCommand(playCmd)
}

type session struct {
	engine   *tif.Engine
	store    storage.Store
	parser   *parser
	render   *ui.Renderer
	narrator *narrate.Narrator
	keep     int
}

func runPlay(arg string, narrateFlag bool, backend string) error {
	worldPath, manifest, err := resolveGame(arg)
	if err != nil {
		return err
	}
	store, err := openStore(worldPath, manifest, backend)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	doc, err := pickStartDocument(store)
	if err != nil {
		return err
	}
	engine, err := buildEngine(worldPath, doc)
	if err != nil {
		return err
	}

	s := &session{
		engine: engine,
		store:  store,
		parser: newParser(engine.VocabularyDocument()),
		render: ui.NewRenderer(),
		keep:   autosaveKeep(manifest),
	}
	if narrateFlag || manifest.Narrate.Enabled || config.GetBool("narrate.enabled") {
		model := manifest.Narrate.Model
		if model == "" {
			model = config.GetString("narrate.model")
		}
		n, err := narrate.New("", model)
		if err != nil {
			fmt.Println(s.render.Error("Narration disabled: "+err.Error(), false))
		} else {
			s.narrator = n
		}
	}

	md := engine.Metadata()
	fmt.Println(s.render.Title(md.Title))
	if md.Description != "" {
		fmt.Println(s.render.Narration(md.Description))
	}
	s.handleLine("look")
	return s.loop()
}

// pickStartDocument offers existing saves through a selection form; nil
// means a fresh start from the world file.
func pickStartDocument(store storage.Store) ([]byte, error) {
	slots, err := store.List(context.Background())
	if err != nil || len(slots) == 0 || !ui.IsTerminal() {
		return nil, nil
	}
	const fresh = "<new game>"
	options := []huh.Option[string]{huh.NewOption(fresh, fresh)}
	for _, slot := range slots {
		label := fmt.Sprintf("%s (turn %d, %s)", slot.Name, slot.TurnCount,
			slot.UpdatedAt.Local().Format("2006-01-02 15:04"))
		options = append(options, huh.NewOption(label, slot.Name))
	}
	var choice string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Continue a saved game?").
			Options(options...).
			Value(&choice),
	))
	if err := form.Run(); err != nil || choice == fresh || choice == "" {
		return nil, nil
	}
	return store.Get(context.Background(), choice)
}

func buildEngine(worldPath string, saved []byte) (*tif.Engine, error) {
	if saved != nil {
		return tif.FromJSON(saved, tif.Options{})
	}
	return tif.Open(worldPath, tif.Options{})
}

func (s *session) loop() error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(ui.PromptStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		quit, err := s.handleLine(scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// handleLine runs one command and returns true when the player quit.
func (s *session) handleLine(line string) (bool, error) {
	msg := s.parser.parse(line)
	if msg == nil {
		return false, nil
	}
	reply := s.engine.Handle(msg)
	s.printReply(line, reply)

	data, _ := reply["data"].(map[string]any)
	signal, _ := data["signal"].(string)
	switch signal {
	case "quit":
		return true, nil
	case "save":
		s.doSave(data)
	case "load":
		if err := s.doLoad(data); err != nil {
			fmt.Println(s.render.Error(err.Error(), false))
		}
	}

	if reply["success"] == true && signal == "" {
		if doc, err := s.engine.SaveJSON(); err == nil {
			if err := s.store.Autosave(context.Background(), doc, s.keep); err != nil {
				debug.Logf("Debug: autosave failed: %v\n", err)
			}
		}
	}
	return false, nil
}

func (s *session) printReply(input string, reply map[string]any) {
	switch reply["type"] {
	case "result":
		if reply["success"] == true {
			message, _ := reply["message"].(string)
			if s.narrator != nil {
				ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration("narrate.timeout"))
				if prose, err := s.narrator.Narrate(ctx, input, reply); err == nil {
					message = prose
				} else {
					debug.Logf("Debug: narration failed: %v\n", err)
				}
				cancel()
			}
			fmt.Println(s.render.Narration(message))
			if msgs, ok := reply["turn_phase_messages"].([]any); ok {
				var lines []string
				for _, m := range msgs {
					if str, ok := m.(string); ok {
						lines = append(lines, str)
					}
				}
				if out := s.render.Beats(lines); out != "" {
					fmt.Println(out)
				}
			}
			return
		}
		errObj, _ := reply["error"].(map[string]any)
		message, _ := errObj["message"].(string)
		fatal, _ := errObj["fatal"].(bool)
		fmt.Println(s.render.Error(message, fatal))
	case "error":
		message, _ := reply["message"].(string)
		fmt.Println(s.render.Error(message, false))
	}
}

func (s *session) doSave(data map[string]any) {
	name, _ := data["filename"].(string)
	if name == "" {
		name = "quicksave"
	}
	doc, err := s.engine.SaveJSON()
	if err != nil {
		fmt.Println(s.render.Error("save failed: "+err.Error(), false))
		return
	}
	md := s.engine.Metadata()
	info := storage.SlotInfo{
		Title:     md.Title,
		TurnCount: s.engine.TurnCount(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(context.Background(), name, doc, info); err != nil {
		fmt.Println(s.render.Error("save failed: "+err.Error(), false))
		return
	}
	fmt.Println(s.render.Narration(fmt.Sprintf("Saved to slot %q.", name)))
}

func (s *session) doLoad(data map[string]any) error {
	name, _ := data["filename"].(string)
	ctx := context.Background()
	var doc []byte
	var err error
	if name != "" {
		doc, err = s.store.Get(ctx, name)
	} else {
		doc, err = s.store.LatestAutosave(ctx)
		if errors.Is(err, storage.ErrSlotNotFound) {
			return fmt.Errorf("nothing to load yet")
		}
	}
	if err != nil {
		return err
	}
	engine, err := tif.FromJSON(doc, tif.Options{})
	if err != nil {
		return fmt.Errorf("restoring save: %w", err)
	}
	s.engine = engine
	s.parser = newParser(engine.VocabularyDocument())
	fmt.Println(s.render.Narration("Game restored."))
	s.handleLine("look")
	return nil
}
