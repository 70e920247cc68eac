package database

import "time"

type Config struct {
	FilePath string        `envconfig:"SPELLDOWN_DB_PATH" default:"spelldown.db"`
	Timeout  time.Duration `envconfig:"SPELLDOWN_DB_TIMEOUT" default:"1s"`
}
