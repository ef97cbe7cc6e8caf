package paimon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/segmentio/paimon-go"
	"github.com/segmentio/paimon-go/murmur3"
)

func TestRowEncoderConfig(t *testing.T) {
	config, err := paimon.NewRowEncoderConfig()
	require.NoError(t, err)
	require.Equal(t, paimon.DefaultRowEncoderConfig(), config)

	config, err = paimon.NewRowEncoderConfig(
		paimon.InitialVarCapacity(1024),
		paimon.HashSeed(7),
	)
	require.NoError(t, err)
	require.Equal(t, 1024, config.InitialVarCapacity)
	require.Equal(t, uint32(7), config.Seed)

	config, err = paimon.NewRowEncoderConfig(&paimon.RowEncoderConfig{InitialVarCapacity: 8})
	require.NoError(t, err)
	require.Equal(t, 8, config.InitialVarCapacity)
	require.Equal(t, uint32(paimon.DefaultSeed), config.Seed)
}

func TestRowEncoderConfigZeroSeed(t *testing.T) {
	config, err := paimon.NewRowEncoderConfig(paimon.HashSeed(0))
	require.NoError(t, err)
	require.Equal(t, uint32(0), config.Seed)

	config, err = paimon.NewRowEncoderConfig(paimon.HashSeed(0), &paimon.RowEncoderConfig{InitialVarCapacity: 8})
	require.NoError(t, err)
	require.Equal(t, uint32(0), config.Seed)

	e := paimon.NewRowEncoder(1, paimon.HashSeed(0))
	e.WriteInt32(0, 1)
	require.Equal(t, murmur3.HashWords(e.Bytes(), 0), e.HashCode())
	require.NotEqual(t, paimon.HashWords(e.Bytes()), e.HashCode())
}

func TestRowEncoderConfigInvalid(t *testing.T) {
	_, err := paimon.NewRowEncoderConfig(paimon.InitialVarCapacity(-1))
	require.ErrorIs(t, err, paimon.ErrInvalidConfiguration)
	require.Contains(t, err.Error(), "InitialVarCapacity")

	require.Panics(t, func() { paimon.NewRowEncoder(1, paimon.InitialVarCapacity(-1)) })
}
