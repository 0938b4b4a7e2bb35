// Command pianoroll opens a terminal piano-roll editor on a demo clip. It is
// a thin front end over the editor package: it translates terminal mouse and
// key events into editor calls and draws the resulting state.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/solardaw/pianoroll"
	"github.com/solardaw/pianoroll/config"
	"github.com/solardaw/pianoroll/editor"
	"github.com/solardaw/pianoroll/midibridge"
	"github.com/solardaw/pianoroll/synth"
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to the TOML configuration file")
	flag.Parse()
	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, closeEngine, err := newEngine(cfg.Engine, log)
	if err != nil {
		return err
	}
	defer closeEngine()

	clip := demoClip()
	clip.ID, err = engine.SaveClip(context.Background(), clip)
	if err != nil {
		return fmt.Errorf("seed demo clip: %w", err)
	}
	if store, ok := engine.(interface{ PutTrack(pianoroll.TrackInfo) }); ok {
		store.PutTrack(pianoroll.TrackInfo{ID: clip.TrackID, Name: "Lead", Volume: 0.8})
	}

	broker := editor.NewBroker()
	session := editor.NewSession()
	model := editor.NewModel(session, broker, clip)
	model.SetGrid(cfg.MakeGrid())

	go editor.RunEngineLoop(broker, engine)
	defer func() {
		broker.CloseEngine <- struct{}{}
		<-broker.FinishedEngine
	}()

	log.Info("editor starting", "clip", clip.Name, "engine", cfg.Engine.Backend)
	program := tea.NewProgram(newUI(model, broker, log),
		tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/pianoroll/config.toml"
	}
	return "config.toml"
}

func newLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	// stderr is unusable under the alternate screen, so log to a file or
	// nowhere.
	var w io.Writer = io.Discard
	closeLog := func() {}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog, nil
}

func newEngine(cfg config.EngineConfig, log *slog.Logger) (pianoroll.AudioEngine, func(), error) {
	switch cfg.Backend {
	case "midi":
		e, err := midibridge.New(cfg.MIDIPort, log)
		if err != nil {
			return nil, nil, err
		}
		return e, func() { e.Close() }, nil
	case "synth":
		e, err := synth.New()
		if err != nil {
			return nil, nil, err
		}
		return e, func() { e.Close() }, nil
	default:
		return &pianoroll.NullEngine{}, func() {}, nil
	}
}

// demoClip is a two bar figure to start editing from.
func demoClip() pianoroll.Clip {
	clip := pianoroll.NewClip(1, "Demo")
	for i, pitch := range []int{60, 64, 67, 72, 67, 64, 60, 55} {
		clip.AddNote(pianoroll.Note{
			Pitch:    pitch,
			Velocity: pianoroll.DefaultVelocity,
			Start:    float64(i),
			Duration: 0.75,
		})
	}
	return clip
}
