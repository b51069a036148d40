package session

import (
	"time"

	"tube-adventures/internal/playback"
)

// The browser owns the real player; these methods forward commands and
// answer from the values it last reported.

func (s *Session) Position() time.Duration { return s.position }

func (s *Session) Duration() time.Duration { return s.duration }

func (s *Session) State() playback.State { return s.state }

func (s *Session) Seek(position time.Duration) error {
	if err := s.emit(CommandSeek, seconds(position)); err != nil {
		return err
	}
	s.position = position
	return nil
}

func (s *Session) Play() error {
	if err := s.emit(CommandPlay, nil); err != nil {
		return err
	}
	s.state = playback.StatePlaying
	return nil
}

func (s *Session) Pause() error {
	if err := s.emit(CommandPause, nil); err != nil {
		return err
	}
	s.state = playback.StatePaused
	return nil
}

func (s *Session) Open(src playback.Source) error {
	if err := s.emit(CommandOpen, s.publicSource(src)); err != nil {
		return err
	}
	s.position = 0
	s.duration = 0
	s.state = playback.StateStopped
	return nil
}

var _ playback.Host = (*Session)(nil)
