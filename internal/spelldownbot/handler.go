package spelldownbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bloops-games/spelldown/internal/logging"
	"github.com/bloops-games/spelldown/internal/spelldown/game"
	sdResource "github.com/bloops-games/spelldown/internal/spelldown/resource"
	"github.com/bloops-games/spelldown/internal/spelldown/speech"
	"github.com/bloops-games/spelldown/internal/spelldownbot/resource"
	"github.com/bloops-games/spelldown/internal/wordlist"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

func (m *manager) handleUpdate(ctx context.Context, upd tgbotapi.Update) error {
	logger := logging.FromContext(ctx).Named("spelldownbot.manager.handleUpdate")

	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	u, err := m.recvUser(upd)
	if err != nil {
		logger.Errorf("recv user: %v", err)
	}

	c := m.chat(ctx, msg.Chat.ID)
	c.touch()

	if msg.Voice != nil {
		if !c.captured(speech.Capture{Err: speech.ErrCaptureFailed}) {
			c.sendText(resource.TextVoiceNotAllowed)
		}
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	cmd, args := parseCommand(text)
	switch cmd {
	case resource.CmdStart, resource.CmdHelp:
		reply := tgbotapi.NewMessage(c.id, fmt.Sprintf(resource.TextGreetingMsg, u.DisplayName()))
		reply.ParseMode = tgbotapi.ModeMarkdown
		c.send(reply, nil)
	case resource.CmdWords:
		m.handleWordsCmd(ctx, c, args)
	case resource.CmdMyWords:
		m.handleMyWordsCmd(ctx, c, args)
	case resource.CmdPlay:
		if err := m.handlePlayCmd(ctx, c, args); err != nil {
			return fmt.Errorf("handle play cmd: %w", err)
		}
	case resource.CmdStop:
		if err := c.session.Restart(); err != nil {
			return fmt.Errorf("handle stop cmd: %w", err)
		}
		reply := tgbotapi.NewMessage(c.id, resource.TextStoppedMsg)
		reply.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
		c.send(reply, nil)
	case "":
		m.handleText(ctx, c, text)
	default:
		logger.Debugf("unknown command %q", cmd)
	}

	return nil
}

// handleText covers the keyboard buttons and spellings.
func (m *manager) handleText(ctx context.Context, c *chat, text string) {
	logger := logging.FromContext(ctx).Named("spelldownbot.manager.handleText")

	var err error
	switch text {
	case resource.SpellButtonText:
		err = c.session.BeginCapture()
	case resource.NextButtonText:
		if err = c.session.Next(); err == nil {
			c.sendText(sdResource.TextSkippedMsg)
		}
	case resource.RestartButtonText:
		if err = c.session.Restart(); err == nil {
			c.sendText(resource.TextRestartMsg)
		}
	default:
		if text != "" {
			c.captured(speech.Capture{Transcript: text})
		}
		return
	}

	if err != nil {
		logger.Debugf("chat %d: %v", c.id, err)
		c.sendText(game.Describe(err))
	}
}

func (m *manager) handleWordsCmd(ctx context.Context, c *chat, args string) {
	words := splitArgs(args)
	c.setWords(words)
	m.storeSetup(ctx, c)
	c.sendText(fmt.Sprintf(resource.TextWordsSavedMsg, len(words)))
}

func (m *manager) handleMyWordsCmd(ctx context.Context, c *chat, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		c.sendText(resource.TextMyWordsUsageMsg)
		return
	}

	name := fields[0]
	words := splitArgs(strings.Join(fields[1:], " "))
	c.setPlayerWords(name, words)
	m.storeSetup(ctx, c)
	c.sendText(fmt.Sprintf(resource.TextMyWordsSavedMsg, name, len(words)))
}

// handlePlayCmd starts a match. Without names the players of the last match play again.
func (m *manager) handlePlayCmd(ctx context.Context, c *chat, args string) error {
	names := splitArgs(args)
	if len(names) == 0 {
		names = c.lastNames()
	}
	if len(names) == 0 {
		c.sendText(resource.TextPlayUsageMsg)
		return nil
	}

	in := c.startInput(names)
	if err := in.Validate(); err != nil {
		c.sendText(game.Describe(err))
		return nil
	}

	reply := tgbotapi.NewMessage(c.id, fmt.Sprintf(resource.TextPlayersMsg, strings.Join(names, ", ")))
	reply.ReplyMarkup = resource.PlayingKeyboard()
	c.send(reply, nil)

	if err := c.session.Start(in); err != nil {
		c.sendText(game.Describe(err))
		return nil
	}

	c.setNames(names)
	m.storeSetup(ctx, c)
	return nil
}

// parseCommand splits "/cmd@bot args" into "/cmd" and "args". Plain text has no command.
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}

	cmd, args := text, ""
	if i := strings.IndexAny(text, " \n\t"); i >= 0 {
		cmd, args = text[:i], strings.TrimSpace(text[i+1:])
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), args
}

// splitArgs accepts lists separated by commas, new lines or spaces.
func splitArgs(s string) []string {
	var out []string
	for _, part := range wordlist.Split(s) {
		out = append(out, strings.Fields(part)...)
	}
	return out
}
