package editor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/solardaw/pianoroll"
	"github.com/solardaw/pianoroll/editor"
)

// recordingEngine keeps clips like the null engine but remembers the note
// events it was sent.
type recordingEngine struct {
	pianoroll.ClipStore

	mu     sync.Mutex
	events []string
}

func (e *recordingEngine) SendNoteOn(trackID int64, pitch, velocity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, "on")
}

func (e *recordingEngine) SendNoteOff(trackID int64, pitch, releaseVelocity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, "off")
}

func (e *recordingEngine) eventCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

func startLoop(t *testing.T, engine pianoroll.AudioEngine) *editor.Broker {
	t.Helper()
	broker := editor.NewBroker()
	go editor.RunEngineLoop(broker, engine)
	t.Cleanup(func() {
		broker.CloseEngine <- struct{}{}
		if _, ok := editor.TimeoutReceive(broker.FinishedEngine, time.Second); !ok {
			t.Error("engine loop did not shut down")
		}
	})
	return broker
}

func TestEngineLoopLoadsClips(t *testing.T) {
	engine := &pianoroll.NullEngine{}
	clip := pianoroll.NewClip(7, "loaded")
	clip.AddNote(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0, Duration: 1})
	clip.ID = engine.PutClip(clip)
	engine.PutTrack(pianoroll.TrackInfo{ID: 7, Name: "Bass"})

	broker := startLoop(t, engine)
	broker.ToEngine <- editor.MsgToEngine{Data: editor.LoadClipMsg{ClipID: clip.ID}}

	msg, ok := editor.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatal("no reply to the load request")
	}
	loaded, ok := msg.Data.(editor.ClipLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want ClipLoadedMsg", msg.Data)
	}
	if len(loaded.Clip.Notes) != 1 || loaded.Clip.Name != "loaded" {
		t.Errorf("loaded clip = %+v", loaded.Clip)
	}
	msg, ok = editor.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatal("track info did not follow the clip")
	}
	track, ok := msg.Data.(editor.TrackInfoMsg)
	if !ok || track.Track.Name != "Bass" {
		t.Errorf("got %+v, want the Bass track info", msg.Data)
	}
}

func TestEngineLoopReportsErrors(t *testing.T) {
	broker := startLoop(t, &pianoroll.NullEngine{})
	broker.ToEngine <- editor.MsgToEngine{Data: editor.LoadClipMsg{ClipID: 999}}

	msg, ok := editor.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatal("no reply to the failing load")
	}
	if _, ok := msg.Data.(editor.EngineErrorMsg); !ok {
		t.Fatalf("got %T, want EngineErrorMsg", msg.Data)
	}
}

func TestEngineLoopForwardsNotes(t *testing.T) {
	engine := &recordingEngine{}
	broker := startLoop(t, engine)
	broker.ToEngine <- editor.MsgToEngine{Data: editor.NoteOnMsg{TrackID: 1, Pitch: 60, Velocity: 100}}
	broker.ToEngine <- editor.MsgToEngine{Data: editor.NoteOffMsg{TrackID: 1, Pitch: 60}}

	deadline := time.Now().Add(time.Second)
	for engine.eventCount() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("engine saw %d events, want 2", engine.eventCount())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEngineLoopQuantizeKeepsOrder(t *testing.T) {
	engine := &pianoroll.NullEngine{}
	clip := pianoroll.NewClip(1, "q")
	clip.AddNote(pianoroll.Note{Pitch: 60, Velocity: 100, Start: 0.3, Duration: 1})
	clip.ID = engine.PutClip(clip)

	broker := startLoop(t, engine)
	// an edited copy is saved right before the quantize request; the loop
	// must not reorder them
	edited := clip.Copy()
	edited.Notes[0].Start = 0.6
	broker.ToEngine <- editor.MsgToEngine{Data: editor.SaveClipMsg{Clip: edited}}
	broker.ToEngine <- editor.MsgToEngine{Data: editor.QuantizeMsg{ClipID: clip.ID, Division: pianoroll.DivisionEighth}}

	msg, ok := editor.TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatal("no quantize reply")
	}
	loaded := msg.Data.(editor.ClipLoadedMsg)
	if !loaded.Quantized {
		t.Error("quantize reply must be marked as quantized")
	}
	if got := loaded.Clip.Notes[0].Start; got != 0.5 {
		t.Errorf("quantized start = %g, want 0.5 from the freshly saved state", got)
	}
}
