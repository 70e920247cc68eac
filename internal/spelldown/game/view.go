package game

type PlayerView struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Active  bool   `json:"active"`
	Current bool   `json:"current"`
}

// View is everything a frontend renders. Word stays empty until the turn is graded.
type View struct {
	Phase   string       `json:"phase"`
	Players []PlayerView `json:"players"`
	Current string       `json:"current,omitempty"`

	Word        string `json:"word,omitempty"`
	TurnState   string `json:"turnState,omitempty"`
	Attempts    int    `json:"attempts"`
	MaxAttempts int    `json:"maxAttempts"`
	Transcript  string `json:"transcript,omitempty"`

	Countdown       int  `json:"countdown"`
	CountdownActive bool `json:"countdownActive"`

	Feedback     string `json:"feedback,omitempty"`
	FeedbackKind string `json:"feedbackKind,omitempty"`

	Capturing        bool   `json:"capturing"`
	CaptureAvailable bool   `json:"captureAvailable"`
	CaptureError     string `json:"captureError,omitempty"`
	CanNext          bool   `json:"canNext"`

	Winner    string `json:"winner,omitempty"`
	EndReason string `json:"endReason,omitempty"`
	WordsUsed int    `json:"wordsUsed"`
}

func (v View) HasWinner() bool { return v.Winner != "" }
