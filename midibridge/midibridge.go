// Package midibridge is an AudioEngine adapter that forwards note events to
// a MIDI output port through gomidi/rtmidi, while keeping clips in memory.
// It lets the editor audition through any external synth listening on the
// port.
package midibridge

import (
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register the rtmidi driver

	"github.com/solardaw/pianoroll"
)

type Engine struct {
	pianoroll.ClipStore

	out  drivers.Out
	send func(midi.Message) error
	log  *slog.Logger
}

// New opens the first MIDI output port whose name contains portName, case
// insensitively, or the first available port when portName is empty.
func New(portName string, log *slog.Logger) (*Engine, error) {
	out, err := findOut(portName)
	if err != nil {
		return nil, err
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open midi out %q: %w", out.String(), err)
	}
	log.Info("midi output opened", "port", out.String())
	return &Engine{out: out, send: send, log: log}, nil
}

func findOut(portName string) (drivers.Out, error) {
	outs := midi.GetOutPorts()
	if len(outs) == 0 {
		return nil, fmt.Errorf("no midi output ports available")
	}
	if portName == "" {
		return outs[0], nil
	}
	for _, out := range outs {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(portName)) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("no midi output port matching %q", portName)
}

// channel maps a track to a MIDI channel. Tracks beyond 16 wrap around.
func channel(trackID int64) uint8 {
	if trackID < 0 {
		return 0
	}
	return uint8(trackID % 16)
}

func (e *Engine) SendNoteOn(trackID int64, pitch, velocity int) {
	pitch = pianoroll.ClampPitch(pitch)
	velocity = pianoroll.ClampVelocity(velocity)
	if err := e.send(midi.NoteOn(channel(trackID), uint8(pitch), uint8(velocity))); err != nil {
		e.log.Warn("note on failed", "pitch", pitch, "error", err)
	}
}

func (e *Engine) SendNoteOff(trackID int64, pitch, releaseVelocity int) {
	pitch = pianoroll.ClampPitch(pitch)
	if err := e.send(midi.NoteOff(channel(trackID), uint8(pitch))); err != nil {
		e.log.Warn("note off failed", "pitch", pitch, "error", err)
	}
}

// Close silences every channel and releases the port and the driver.
func (e *Engine) Close() error {
	for ch := uint8(0); ch < 16; ch++ {
		// CC 123: all notes off
		_ = e.send(midi.ControlChange(ch, 123, 0))
	}
	err := e.out.Close()
	midi.CloseDriver()
	if err != nil {
		return fmt.Errorf("close midi out: %w", err)
	}
	return nil
}
