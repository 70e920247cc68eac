package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bloops-games/spelldown/internal/buildinfo"
	"github.com/bloops-games/spelldown/internal/spelldown/match"
	"github.com/bloops-games/spelldown/internal/spelldown/turn"
	"github.com/bloops-games/spelldown/internal/wordlist"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	players     []string
	words       []string
	wordsFile   string
	playerWords []string
	maxAttempts int
	tick        time.Duration
	verbose     bool
}

var errPlayerWords = errors.New("--player-words expects Name=word1,word2")

// startInput merges players from flags and args with the word lists. Explicit words win
// over the file, and without either the built-in list is used.
func (c *Config) startInput(args []string) (match.StartInput, error) {
	names := append(append([]string(nil), c.players...), args...)
	in := match.StartInput{Names: names, GlobalWords: c.words}

	var file wordlist.List
	if c.wordsFile != "" {
		l, err := wordlist.Load(c.wordsFile)
		if err != nil {
			return in, fmt.Errorf("load words: %w", err)
		}
		file = l
	}
	if len(in.GlobalWords) == 0 {
		in.GlobalWords = file.Words
	}
	if len(in.GlobalWords) == 0 {
		in.GlobalWords = wordlist.Default()
	}

	personal, err := parsePlayerWords(c.playerWords)
	if err != nil {
		return in, err
	}
	for _, name := range names {
		words := file.WordsFor(name)
		for k, w := range personal {
			if strings.EqualFold(k, name) {
				words = w
			}
		}
		in.PlayerWords = append(in.PlayerWords, words)
	}

	return in, in.Validate()
}

func parsePlayerWords(entries []string) (map[string][]string, error) {
	out := make(map[string][]string, len(entries))
	for _, e := range entries {
		i := strings.Index(e, "=")
		if i <= 0 {
			return nil, fmt.Errorf("%w, got %q", errPlayerWords, e)
		}
		name := strings.TrimSpace(e[:i])
		out[name] = wordlist.Split(e[i+1:])
	}
	return out, nil
}

func (c *Config) timing() turn.Timing {
	t := turn.DefaultTiming()
	if c.maxAttempts > 0 {
		t.MaxAttempts = c.maxAttempts
	}
	if c.tick > 0 {
		t.Tick = c.tick
	}
	return t
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SPELLDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "spelldown-cli [players...]",
		Short:   "A spelling bee for 2 to 4 players in one terminal.",
		Version: buildinfo.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := cfg.startInput(args)
			if err != nil {
				return err
			}
			return play(cmd.Context(), cfg, in)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringSliceVarP(&cfg.players, "players", "p", nil, "player names, 2 to 4 (env: SPELLDOWN_PLAYERS)")
	fs.StringSliceVarP(&cfg.words, "words", "w", nil, "words for everybody (env: SPELLDOWN_WORDS)")
	fs.StringVarP(&cfg.wordsFile, "words-file", "f", "", "text or yaml word list (env: SPELLDOWN_WORDS_FILE)")
	fs.StringArrayVar(&cfg.playerWords, "player-words", nil, "personal words as Name=word1,word2, repeatable")
	fs.IntVar(&cfg.maxAttempts, "max-attempts", 2, "attempts per word (env: SPELLDOWN_MAX_ATTEMPTS)")
	fs.DurationVar(&cfg.tick, "tick", time.Second, "countdown step (env: SPELLDOWN_TICK)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log debug output to stderr (env: SPELLDOWN_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetVersionTemplate(buildinfo.ProjectName + " {{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
