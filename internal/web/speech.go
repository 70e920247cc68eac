package web

import (
	"sync"

	"github.com/bloops-games/spelldown/internal/spelldown/speech"
)

// sender delivers a message to the device that owns the microphone and speakers.
type sender interface {
	SendHost(msg interface{}) bool
}

var (
	_ speech.Speaker  = (*hostSpeech)(nil)
	_ speech.Listener = (*hostSpeech)(nil)
)

// hostSpeech forwards speech requests to the host browser and matches its answers by id.
type hostSpeech struct {
	out sender

	mu          sync.Mutex
	seq         int
	speaking    map[int]func()
	capturing   map[int]func(speech.Capture)
	reported    bool
	synthesis   bool
	recognition bool
}

func newHostSpeech(out sender) *hostSpeech {
	return &hostSpeech{
		out:       out,
		speaking:  make(map[int]func()),
		capturing: make(map[int]func(speech.Capture)),
	}
}

// setCapabilities records what the host browser supports. Until reported both are assumed.
func (h *hostSpeech) setCapabilities(synthesis, recognition bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reported = true
	h.synthesis = synthesis
	h.recognition = recognition
}

func (h *hostSpeech) nextID() int {
	h.seq++
	return h.seq
}

func (h *hostSpeech) Speak(text string, done func()) {
	h.mu.Lock()
	if h.reported && !h.synthesis {
		h.mu.Unlock()
		return
	}
	id := h.nextID()
	if done != nil {
		h.speaking[id] = done
	}
	h.mu.Unlock()

	if !h.out.SendHost(SpeakMessage{Type: "speak", ID: id, Text: text}) {
		h.mu.Lock()
		delete(h.speaking, id)
		h.mu.Unlock()
	}
}

func (h *hostSpeech) Cancel() {
	h.mu.Lock()
	for id := range h.speaking {
		delete(h.speaking, id)
	}
	h.mu.Unlock()

	h.out.SendHost(SimpleMessage{Type: "speech_cancel"})
}

func (h *hostSpeech) StartCapture(fn func(speech.Capture)) {
	h.mu.Lock()
	if h.reported && !h.recognition {
		h.mu.Unlock()
		fn(speech.Capture{Err: speech.ErrCaptureUnsupported})
		return
	}
	id := h.nextID()
	h.capturing[id] = fn
	h.mu.Unlock()

	if !h.out.SendHost(CaptureMessage{Type: "capture", ID: id}) {
		h.mu.Lock()
		delete(h.capturing, id)
		h.mu.Unlock()
		fn(speech.Capture{Err: speech.ErrCaptureFailed})
	}
}

func (h *hostSpeech) speechDone(id int) {
	h.mu.Lock()
	done, ok := h.speaking[id]
	delete(h.speaking, id)
	h.mu.Unlock()

	if ok {
		done()
	}
}

func (h *hostSpeech) captured(id int, c speech.Capture) {
	h.mu.Lock()
	fn, ok := h.capturing[id]
	delete(h.capturing, id)
	h.mu.Unlock()

	if ok {
		fn(c)
	}
}

// hostGone fails open captures and completes pending utterances, nobody is left to finish them.
func (h *hostSpeech) hostGone() {
	h.mu.Lock()
	speaking, capturing := h.speaking, h.capturing
	h.speaking = make(map[int]func())
	h.capturing = make(map[int]func(speech.Capture))
	h.reported = false
	h.mu.Unlock()

	for _, fn := range capturing {
		fn(speech.Capture{Err: speech.ErrCaptureFailed})
	}
	for _, done := range speaking {
		done()
	}
}

// captureError maps browser SpeechRecognition error codes.
func captureError(code string) error {
	switch code {
	case "not-allowed", "service-not-allowed":
		return speech.ErrCaptureDenied
	case "unsupported":
		return speech.ErrCaptureUnsupported
	case "no-speech":
		return speech.ErrNoSpeech
	default:
		return speech.ErrCaptureFailed
	}
}
