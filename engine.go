package pianoroll

import (
	"context"
	"fmt"
	"math"
	"sync"
)

type (
	// AudioEngine is the external process that owns playback and clip
	// persistence. The editor never blocks on it directly; all calls are
	// made from a dedicated engine loop goroutine. Note on/off are
	// fire-and-forget; the clip operations take a context so the loop can
	// put a deadline on them.
	AudioEngine interface {
		SendNoteOn(trackID int64, pitch, velocity int)
		SendNoteOff(trackID int64, pitch, releaseVelocity int)

		SaveClip(ctx context.Context, c Clip) (int64, error)
		QuantizeClip(ctx context.Context, clipID int64, division Division) error
		FetchClip(ctx context.Context, clipID int64) (Clip, error)
		ClipDuration(ctx context.Context, clipID int64) (float64, error)
		TrackInfo(ctx context.Context, trackID int64) (TrackInfo, error)
	}

	// TrackInfo is the engine-side metadata of a track, shown in the editor
	// header.
	TrackInfo struct {
		ID     int64
		Name   string
		Muted  bool
		Volume float64
	}

	// ClipStore is an in-memory implementation of the clip-owning half of
	// AudioEngine, safe for concurrent use. Engine adapters that only add a
	// note transport embed it.
	ClipStore struct {
		mu     sync.Mutex
		clips  map[int64]Clip
		tracks map[int64]TrackInfo
		nextID int64
	}

	// NullEngine is an AudioEngine that stores clips but discards all note
	// events. Used in tests and when no audio backend is configured.
	NullEngine struct {
		ClipStore
	}
)

func (*NullEngine) SendNoteOn(trackID int64, pitch, velocity int)         {}
func (*NullEngine) SendNoteOff(trackID int64, pitch, releaseVelocity int) {}

// PutClip stores a clip, assigning an id if it is unsaved, and returns the
// id under which it was stored.
func (s *ClipStore) PutClip(c Clip) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clips == nil {
		s.clips = make(map[int64]Clip)
	}
	if c.ID == UnsavedClipID {
		s.nextID++
		c.ID = s.nextID
	} else if c.ID > s.nextID {
		s.nextID = c.ID
	}
	s.clips[c.ID] = c.Copy()
	return c.ID
}

// SaveClip stores a clip like PutClip, but honors context cancellation, for
// use through the AudioEngine interface.
func (s *ClipStore) SaveClip(ctx context.Context, c Clip) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.PutClip(c), nil
}

// PutTrack stores track metadata.
func (s *ClipStore) PutTrack(t TrackInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracks == nil {
		s.tracks = make(map[int64]TrackInfo)
	}
	s.tracks[t.ID] = t
}

func (s *ClipStore) FetchClip(ctx context.Context, clipID int64) (Clip, error) {
	if err := ctx.Err(); err != nil {
		return Clip{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[clipID]
	if !ok {
		return Clip{}, fmt.Errorf("no clip with id %d", clipID)
	}
	return c.Copy(), nil
}

func (s *ClipStore) ClipDuration(ctx context.Context, clipID int64) (float64, error) {
	c, err := s.FetchClip(ctx, clipID)
	if err != nil {
		return 0, err
	}
	return math.Max(c.LoopLength, c.LastEnd()), nil
}

func (s *ClipStore) TrackInfo(ctx context.Context, trackID int64) (TrackInfo, error) {
	if err := ctx.Err(); err != nil {
		return TrackInfo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[trackID]
	if !ok {
		return TrackInfo{}, fmt.Errorf("no track with id %d", trackID)
	}
	return t, nil
}

// QuantizeClip snaps the starts of the stored clip's notes to the given
// division, keeping each note's end where it was. The editor reloads the
// clip afterwards instead of predicting the result.
func (s *ClipStore) QuantizeClip(ctx context.Context, clipID int64, division Division) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[clipID]
	if !ok {
		return fmt.Errorf("no clip with id %d", clipID)
	}
	c.Notes = QuantizeNotes(c.Notes, division)
	s.clips[clipID] = c
	return nil
}

// QuantizeNotes returns a copy of notes with every start rounded to the
// nearest multiple of the division and the original end positions preserved.
// Notes that would be squeezed to nothing keep one division of length.
func QuantizeNotes(notes []Note, division Division) []Note {
	d := division.Beats()
	out := make([]Note, len(notes))
	for i, n := range notes {
		end := n.End()
		n.Start = math.Round(n.Start/d) * d
		if n.Start < 0 {
			n.Start = 0
		}
		n.Duration = end - n.Start
		if n.Duration < d {
			n.Duration = d
		}
		out[i] = n
	}
	return out
}
