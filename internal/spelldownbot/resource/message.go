package resource

import (
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

const (
	CmdStart   = "/start"
	CmdHelp    = "/help"
	CmdWords   = "/words"
	CmdMyWords = "/mywords"
	CmdPlay    = "/play"
	CmdStop    = "/stop"
)

var (
	SpellButtonText   = emoji.Loudspeaker.String() + " Spell the word"
	NextButtonText    = emoji.ChequeredFlag.String() + " Next turn"
	RestartButtonText = emoji.Trophy.String() + " Play again"

	SpellButton   = tgbotapi.NewKeyboardButton(SpellButtonText)
	NextButton    = tgbotapi.NewKeyboardButton(NextButtonText)
	RestartButton = tgbotapi.NewKeyboardButton(RestartButtonText)
)

var (
	TextGreetingMsg = "Hi, %s " + emoji.Robot.String() + "\n\n" +
		"This is a spelling bee for 2 to 4 players sharing one chat. " +
		"Every turn one player gets a word and spells it letter by letter.\n\n" +
		TextRulesMsg + "\n\n" +
		"*Commands:*\n" +
		"/words cat dog bird - words for everybody\n" +
		"/mywords Ann giraffe zebra - words only Ann gets\n" +
		"/play Ann Bob - start a game\n" +
		"/stop - end the current game"

	TextRulesMsg = emoji.Bookmark.String() + " *Rules*\n\n" +
		"Press *Spell the word* and type the letters separated by spaces, like `c a t`. " +
		"A miss costs an attempt, after the second miss the player is knocked out. " +
		"The last player standing wins."

	TextListeningMsg     = emoji.Pen.String() + " Type the letters separated by spaces"
	TextPlayersMsg       = emoji.Robot.String() + " Players: %s"
	TextWordsSavedMsg    = "Word list saved, words: %d"
	TextMyWordsSavedMsg  = "Personal list of %s saved, words: %d"
	TextMyWordsUsageMsg  = "Usage: /mywords Name word1 word2"
	TextPlayUsageMsg     = "Usage: /play Name1 Name2 (2 to 4 players)"
	TextVoiceNotAllowed  = "Voice messages are not recognised, type the letters instead"
	TextStoppedMsg       = "Game stopped. Start a new one with /play"
	TextRestartMsg       = "Ready for another round. Send /play to start, or /play with new names"
	TextStandingsMsg     = "Standings"
	TextStandingsLineMsg = "%s %s - %d"
)

// PlayingKeyboard stays visible for the whole match.
func PlayingKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(SpellButton),
		tgbotapi.NewKeyboardButtonRow(NextButton, RestartButton),
	)
}
