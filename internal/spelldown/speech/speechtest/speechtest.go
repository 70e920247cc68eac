// Package speechtest provides scripted speech capabilities for tests.
package speechtest

import (
	"sync"

	"github.com/bloops-games/spelldown/internal/spelldown/speech"
)

// Speaker records utterances. With Hold set, completions are kept until Finish.
type Speaker struct {
	mu      sync.Mutex
	Hold    bool
	spoken  []string
	pending []func()
	cancels int
}

func (s *Speaker) Speak(text string, done func()) {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	if s.Hold {
		s.pending = append(s.pending, done)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if done != nil {
		done()
	}
}

func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	s.pending = nil
}

// Finish completes every held utterance.
func (s *Speaker) Finish() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, done := range pending {
		if done != nil {
			done()
		}
	}
}

func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.spoken))
	copy(out, s.spoken)
	return out
}

func (s *Speaker) Last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.spoken) == 0 {
		return ""
	}
	return s.spoken[len(s.spoken)-1]
}

func (s *Speaker) Cancels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

// Listener keeps capture sessions open until a result is delivered.
type Listener struct {
	mu      sync.Mutex
	pending []func(speech.Capture)
	starts  int
}

func (l *Listener) StartCapture(fn func(speech.Capture)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.starts++
	l.pending = append(l.pending, fn)
}

// Deliver completes the oldest open capture. It reports false when none is open.
func (l *Listener) Deliver(c speech.Capture) bool {
	l.mu.Lock()
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.pending[0]
	l.pending = l.pending[1:]
	l.mu.Unlock()

	fn(c)
	return true
}

func (l *Listener) Say(transcript string) bool {
	return l.Deliver(speech.Capture{Transcript: transcript})
}

func (l *Listener) Fail(err error) bool {
	return l.Deliver(speech.Capture{Err: err})
}

func (l *Listener) Open() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Listener) Starts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.starts
}
