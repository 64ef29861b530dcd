// Package player abstracts the external media engine behind the small
// contract the editor relies on.
package player

import "errors"

// ErrReleased is returned by bridges used after Release.
var ErrReleased = errors.New("player released")

// Bridge is the playback handle the editor drives. Positions are in
// milliseconds; DurationMs reports zero or less while the length is unknown.
type Bridge interface {
	Load(path string) error
	Play() error
	Pause() error
	Stop() error
	IsPlaying() (bool, error)
	PositionMs() (int64, error)
	DurationMs() (int64, error)
	SetPositionMs(ms int64) error
	AttachToSurface(handle uintptr) error
	Release() error
}

// EngineReleaser is implemented by bridges that own an engine instance
// separate from the player handle. It is released after the player.
type EngineReleaser interface {
	ReleaseEngine() error
}

// Toggle pauses a playing bridge and plays a paused one.
func Toggle(b Bridge) error {
	playing, err := b.IsPlaying()
	if err != nil {
		return err
	}
	if playing {
		return b.Pause()
	}
	return b.Play()
}

// Teardown stops playback, then releases the player and finally the engine.
// Every step runs; the first error is returned.
func Teardown(b Bridge) error {
	if b == nil {
		return nil
	}
	errs := []error{b.Stop(), b.Release()}
	if engine, ok := b.(EngineReleaser); ok {
		errs = append(errs, engine.ReleaseEngine())
	}
	for _, err := range errs {
		if err != nil && !errors.Is(err, ErrReleased) {
			return err
		}
	}
	return nil
}
