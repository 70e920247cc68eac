package model

import (
	"time"

	"github.com/google/uuid"
)

// Setup is the last start input used by a browser or chat, recalled to prefill the next
// match.
type Setup struct {
	ID          uuid.UUID           `json:"id"`
	Key         string              `json:"key"`
	Names       []string            `json:"names"`
	Words       []string            `json:"words"`
	PlayerWords map[string][]string `json:"playerWords"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func NewSetup(key string) Setup {
	return Setup{ID: uuid.New(), Key: key, PlayerWords: map[string][]string{}, UpdatedAt: time.Now()}
}

// WordsFor returns the personal list stored for name, or nil.
func (s Setup) WordsFor(name string) []string {
	if s.PlayerWords == nil {
		return nil
	}
	return s.PlayerWords[name]
}
