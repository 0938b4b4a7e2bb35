package editor

import "github.com/solardaw/pianoroll"

// Audition gives pitch feedback while creating or dragging notes. At most
// one pitch sounds at a time; every gesture exit path runs stopAudition, so
// a voice can never be left hanging even if the engine misses the note on.

func (m *Model) startAudition(pitch, velocity int) {
	if m.auditionPitch == pitch {
		return
	}
	m.stopAudition()
	m.auditionPitch = pitch
	TrySend(m.broker.ToEngine, MsgToEngine{Data: NoteOnMsg{
		TrackID:  m.d.Clip.TrackID,
		Pitch:    pitch,
		Velocity: velocity,
	}})
}

// slideAudition retriggers the voice when a drag crosses into a new pitch
// row; within the same row it is a no-op.
func (m *Model) slideAudition(pitch, velocity int) {
	if m.auditionPitch == pitch || m.auditionPitch == -1 {
		return
	}
	m.stopAudition()
	m.startAudition(pitch, velocity)
}

func (m *Model) stopAudition() {
	if m.auditionPitch == -1 {
		return
	}
	TrySend(m.broker.ToEngine, MsgToEngine{Data: NoteOffMsg{
		TrackID: m.d.Clip.TrackID,
		Pitch:   m.auditionPitch,
	}})
	m.auditionPitch = -1
}

// AuditionPitch returns the currently sounding feedback pitch, or -1.
func (m *Model) AuditionPitch() int { return m.auditionPitch }

// PlayPitch sounds a pitch outside any gesture, for keyboard previews. The
// caller must pair it with StopPlaying.
func (m *Model) PlayPitch(pitch int) {
	m.startAudition(pianoroll.ClampPitch(pitch), pianoroll.DefaultVelocity)
}

func (m *Model) StopPlaying() { m.stopAudition() }
