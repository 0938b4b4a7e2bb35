package editor

import (
	"time"

	"github.com/solardaw/pianoroll"
)

type (
	// Broker is the message hub between the editor model (UI goroutine), the
	// engine loop goroutine, and the host application embedding the editor.
	// All channels are buffered and messages are sent with TrySend so that
	// no party can ever deadlock another; losing a message under pressure is
	// preferable to freezing the UI.
	//
	// The ownership of the clip being edited stays with the Model at all
	// times; messages carry copies.
	Broker struct {
		ToModel  chan MsgToModel
		ToEngine chan MsgToEngine
		ToHost   chan MsgToHost

		// CloseEngine has a capacity of 1 and the engine loop exits after
		// receiving from it, replying once on FinishedEngine.
		CloseEngine    chan struct{}
		FinishedEngine chan struct{}
	}

	// MsgToModel is handled by Model.ProcessMsg on the UI goroutine.
	MsgToModel struct {
		// Data is one of: ClipLoadedMsg, TrackInfoMsg, EngineErrorMsg.
		Data any
	}

	// MsgToEngine is handled by the engine loop.
	MsgToEngine struct {
		// Data is one of: NoteOnMsg, NoteOffMsg, QuantizeMsg, SaveClipMsg,
		// LoadClipMsg.
		Data any
	}

	// MsgToHost notifies the embedding application of editor events.
	MsgToHost struct {
		// Data is one of: ClipChangedMsg, EditorClosedMsg.
		Data any
	}

	NoteOnMsg struct {
		TrackID  int64
		Pitch    int
		Velocity int
	}

	NoteOffMsg struct {
		TrackID int64
		Pitch   int
	}

	// QuantizeMsg asks the engine loop to quantize a clip and send the
	// result back as a ClipLoadedMsg.
	QuantizeMsg struct {
		ClipID   int64
		Division pianoroll.Division
	}

	// SaveClipMsg pushes the current clip contents to the engine.
	SaveClipMsg struct {
		Clip pianoroll.Clip
	}

	// LoadClipMsg asks the engine loop to fetch a clip and its track info.
	LoadClipMsg struct {
		ClipID int64
	}

	// ClipLoadedMsg carries a clip fetched from the engine. Quantized marks
	// the reload that answers a QuantizeMsg, so the model can tell it apart
	// from an ordinary load and commit the pending quantize edit.
	ClipLoadedMsg struct {
		Clip      pianoroll.Clip
		Quantized bool
	}

	TrackInfoMsg struct {
		Track pianoroll.TrackInfo
	}

	EngineErrorMsg struct {
		Err error
	}

	// ClipChangedMsg is sent to the host after every committed edit.
	ClipChangedMsg struct {
		Clip pianoroll.Clip
	}

	EditorClosedMsg struct{}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:        make(chan MsgToModel, 1024),
		ToEngine:       make(chan MsgToEngine, 1024),
		ToHost:         make(chan MsgToHost, 1024),
		CloseEngine:    make(chan struct{}, 1),
		FinishedEngine: make(chan struct{}),
	}
}

// TrySend sends a message to a channel, returning false if the channel was
// full. Never blocks.
func TrySend[T any](c chan<- T, msg T) bool {
	select {
	case c <- msg:
	default:
		return false
	}
	return true
}

// TimeoutReceive receives from a channel with a timeout; ok is false if the
// timeout expired first. Intended for tests and shutdown paths.
func TimeoutReceive[T any](c <-chan T, timeout time.Duration) (msg T, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg = <-c:
		return msg, true
	case <-timer.C:
		return msg, false
	}
}
