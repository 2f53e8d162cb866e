package postgres

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/pommerman/eventstats/internal/config"
)

func TestInit_UnreachableServer(t *testing.T) {
	b := New(config.DBConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Username: "postgres",
		Password: "postgres",
		Database: "eventstats",
	}, zerolog.Nop())

	err := b.Init()
	assert.Error(t, err)
	assert.NoError(t, b.Close())
}
