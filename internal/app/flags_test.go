package app

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBind(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("rootview", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)

	require.NoError(t, fs.Parse([]string{"-scene", "phased", "-scale", "2", "-seed", "7", "-set", "levels=2", "-set", " height = 6"}))
	assert.Equal(t, "phased", cfg.Scene)
	assert.Equal(t, 2, cfg.Scale)
	assert.EqualValues(t, 7, cfg.Seed)
	assert.Equal(t, Pairs{"levels": "2", "height": "6"}, cfg.Set)
	assert.Equal(t, 60, cfg.TPS)
}

func TestPairsRejectMalformed(t *testing.T) {
	p := Pairs{}
	assert.Error(t, p.Set("levels"))
	assert.Error(t, p.Set("=3"))
	require.NoError(t, p.Set("a=b=c"))
	assert.Equal(t, "b=c", p["a"])
	assert.Equal(t, "a=b=c", p.String())
}
