package web

import "github.com/bloops-games/spelldown/internal/spelldown/game"

// inbound message types
const (
	msgCapabilities = "capabilities"
	msgStart        = "start"
	msgSpell        = "spell"
	msgNext         = "next"
	msgRestart      = "restart"
	msgSpeechDone   = "speech_done"
	msgTranscript   = "transcript"
	msgCaptureError = "capture_error"
	msgCaptureEnd   = "capture_end"
)

// rateLimited reports whether a message type is a player action. Speech adapter replies
// are never dropped: a lost transcript leaves the turn capturing.
func rateLimited(typ string) bool {
	switch typ {
	case msgStart, msgSpell, msgNext, msgRestart:
		return true
	default:
		return false
	}
}

// ClientMessage is everything a browser may send. Only the host device's messages
// control the game.
type ClientMessage struct {
	Type string `json:"type"`

	// capabilities
	Synthesis   bool `json:"synthesis,omitempty"`
	Recognition bool `json:"recognition,omitempty"`

	// start
	Names       []string `json:"names,omitempty"`
	Words       string   `json:"words,omitempty"`
	PlayerWords []string `json:"playerWords,omitempty"`

	// speech_done, transcript, capture_error, capture_end
	ID         int    `json:"id,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
}

type SessionInfoMessage struct {
	Type   string `json:"type"` // "session_info"
	RoomID string `json:"roomId"`
	IsHost bool   `json:"isHost"`
	Lang   string `json:"lang"`
}

type ViewMessage struct {
	Type string    `json:"type"` // "view"
	View game.View `json:"view"`
}

// SpeakMessage asks the host to speak text and answer with speech_done.
type SpeakMessage struct {
	Type string `json:"type"` // "speak"
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// CaptureMessage asks the host to listen once and answer with transcript or capture_error.
type CaptureMessage struct {
	Type string `json:"type"` // "capture"
	ID   int    `json:"id"`
}

type SetupMessage struct {
	Type        string   `json:"type"` // "setup"
	Names       []string `json:"names"`
	Words       string   `json:"words"`
	PlayerWords []string `json:"playerWords"`
}

// SimpleMessage is for "speech_cancel" and "error".
type SimpleMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}
