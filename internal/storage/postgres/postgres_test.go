package postgres

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarviz/orbits/internal/database"
)

func TestNew_DoesNotConnect(t *testing.T) {
	b := New(database.PostgresConfig{Host: "127.0.0.1", Port: "1"}, zerolog.Nop())
	require.NotNil(t, b)
	assert.Nil(t, b.manager.DB)
	assert.NoError(t, b.Close())
}

func TestExport_BeforeInit(t *testing.T) {
	b := New(database.PostgresConfig{}, zerolog.Nop())
	assert.Error(t, b.Export(context.Background(), nil, nil))
}

func TestInit_Unreachable(t *testing.T) {
	b := New(database.PostgresConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		Username: "postgres",
		Password: "postgres",
		Database: "orbits",
	}, zerolog.Nop())

	err := b.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")
}
