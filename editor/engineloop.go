package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/solardaw/pianoroll"
)

// engineCallTimeout bounds every clip operation against the engine, so a
// stuck backend surfaces as an alert rather than a wedged loop.
const engineCallTimeout = 2 * time.Second

// RunEngineLoop drains broker.ToEngine and performs each request against the
// engine, strictly one at a time and in order, so that a quantize never
// races the save that precedes it. Run it on its own goroutine; it returns
// after a CloseEngine signal and closes FinishedEngine on the way out.
func RunEngineLoop(broker *Broker, engine pianoroll.AudioEngine) {
	defer close(broker.FinishedEngine)
	for {
		select {
		case <-broker.CloseEngine:
			return
		case msg := <-broker.ToEngine:
			handleEngineMsg(broker, engine, msg)
		}
	}
}

func handleEngineMsg(broker *Broker, engine pianoroll.AudioEngine, msg MsgToEngine) {
	switch data := msg.Data.(type) {
	case NoteOnMsg:
		engine.SendNoteOn(data.TrackID, data.Pitch, data.Velocity)
	case NoteOffMsg:
		engine.SendNoteOff(data.TrackID, data.Pitch, defaultReleaseVelocity)
	case SaveClipMsg:
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()
		if _, err := engine.SaveClip(ctx, data.Clip); err != nil {
			reportEngineError(broker, fmt.Errorf("save clip: %w", err))
		}
	case LoadClipMsg:
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()
		clip, err := engine.FetchClip(ctx, data.ClipID)
		if err != nil {
			reportEngineError(broker, fmt.Errorf("load clip: %w", err))
			return
		}
		TrySend(broker.ToModel, MsgToModel{Data: ClipLoadedMsg{Clip: clip}})
		if track, err := engine.TrackInfo(ctx, clip.TrackID); err == nil {
			TrySend(broker.ToModel, MsgToModel{Data: TrackInfoMsg{Track: track}})
		}
	case QuantizeMsg:
		ctx, cancel := context.WithTimeout(context.Background(), engineCallTimeout)
		defer cancel()
		if err := engine.QuantizeClip(ctx, data.ClipID, data.Division); err != nil {
			reportEngineError(broker, fmt.Errorf("quantize clip: %w", err))
			return
		}
		clip, err := engine.FetchClip(ctx, data.ClipID)
		if err != nil {
			reportEngineError(broker, fmt.Errorf("reload quantized clip: %w", err))
			return
		}
		TrySend(broker.ToModel, MsgToModel{Data: ClipLoadedMsg{Clip: clip, Quantized: true}})
	}
}

const defaultReleaseVelocity = 64

func reportEngineError(broker *Broker, err error) {
	TrySend(broker.ToModel, MsgToModel{Data: EngineErrorMsg{Err: err}})
}
