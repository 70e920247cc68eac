package resource

import (
	"fmt"
	"strings"

	"github.com/bloops-games/spelldown/internal/strpool"
	"github.com/bloops-games/spelldown/internal/util"
	"github.com/enescakir/emoji"
)

// spoken and displayed text
const (
	TextPromptMsg          = "%s's go. The word is %s"
	TextCorrectMsg         = "Correct!"
	TextIncorrectRetryMsg  = "Incorrect. Try again, %d %s left"
	TextRevealMsg          = "Incorrect. The correct spelling is %s"
	TextWholeWordMsg       = "Spell the word letter by letter, not the whole word"
	TextNotLettersMsg      = "Say single letters only, separated by pauses"
	TextCaptureFailedMsg   = "Didn't catch that, try again"
	TextNoSpeechMsg        = "No speech heard, try again"
	TextCaptureDisabledMsg = "Voice input is unavailable here, use Next Turn"
	TextSkippedMsg         = "Turn skipped"
	TextWinnerMsg          = "%s wins!"
	TextNoWinnerMsg        = "Out of words, nobody wins this time"
	TextKnockedOutMsg      = "%s is knocked out"
)

// Prompt is spoken when a word is drawn.
func Prompt(player, word string) string {
	return fmt.Sprintf(TextPromptMsg, player, word)
}

func Retry(left int) string {
	return fmt.Sprintf(TextIncorrectRetryMsg, left, util.Plural(left, "try", "tries"))
}

// Reveal shows the spelling as text, e.g. "C-A-T".
func Reveal(letters []string) string {
	return fmt.Sprintf(TextRevealMsg, strings.Join(letters, "-"))
}

// SpokenReveal reads the spelling letter by letter with pauses between letters.
func SpokenReveal(letters []string) string {
	return strpool.Build(func(b *strings.Builder) {
		b.WriteString("The correct spelling is ")
		for i, l := range letters {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(l)
		}
	})
}

// Decorate prefixes a display message with an emoji for text frontends.
func Decorate(kind, msg string) string {
	var e emoji.Emoji
	switch kind {
	case "correct":
		e = emoji.CheckMarkButton
	case "incorrect":
		e = emoji.CrossMark
	case "revealed":
		e = emoji.Bookmark
	case "whole_word", "not_letters":
		e = emoji.Pen
	case "capture_error":
		e = emoji.Robot
	case "winner":
		e = emoji.Trophy
	case "no_winner":
		e = emoji.ChequeredFlag
	case "knocked_out":
		e = emoji.NoEntry
	case "prompt":
		e = emoji.Loudspeaker
	default:
		return msg
	}
	return e.String() + " " + msg
}
