// Package speech defines the two capabilities the game depends on: speaking text aloud and
// capturing a spoken spelling. Implementations live with each frontend.
package speech

import "errors"

var (
	// ErrCaptureUnsupported means the device cannot capture speech at all. Permanent for
	// the session; players fall back to the manual next turn.
	ErrCaptureUnsupported = errors.New("speech capture is not supported")
	// ErrCaptureDenied means the user refused microphone access. Permanent for the session.
	ErrCaptureDenied = errors.New("microphone permission denied")
	// ErrCaptureFailed is a transient recognition failure.
	ErrCaptureFailed = errors.New("speech recognition failed")
	// ErrNoSpeech means capture ended without hearing anything.
	ErrNoSpeech = errors.New("no speech detected")
)

// IsPermanent reports whether err disables capture for the rest of the session.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrCaptureUnsupported) || errors.Is(err, ErrCaptureDenied)
}

// Speaker speaks text. It is best effort: done is called once playback finishes and may
// never be called when the capability is unavailable. Speak cancels any utterance still in
// progress before starting.
type Speaker interface {
	Speak(text string, done func())
	Cancel()
}

// Capture is the single result of a capture session.
type Capture struct {
	Transcript string
	Err        error
}

// Listener starts capture sessions. Each StartCapture delivers exactly one Capture to fn,
// possibly from another goroutine.
type Listener interface {
	StartCapture(fn func(Capture))
}

// Mute is a Speaker that completes immediately without output.
type Mute struct{}

func (Mute) Speak(_ string, done func()) {
	if done != nil {
		done()
	}
}

func (Mute) Cancel() {}

// Unsupported is a Listener for devices without speech recognition.
type Unsupported struct{}

func (Unsupported) StartCapture(fn func(Capture)) {
	fn(Capture{Err: ErrCaptureUnsupported})
}
