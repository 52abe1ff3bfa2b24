package tfidf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prepared(t *testing.T, corpus []string) *Embedder {
	t.Helper()
	e := NewEmbedder()
	require.NoError(t, e.Prepare(corpus))
	return e
}

func TestPrepareEmptyCorpus(t *testing.T) {
	e := NewEmbedder()
	assert.Error(t, e.Prepare(nil))
}

func TestEmbedBeforePrepare(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed("vía terciaria")
	assert.Error(t, err)
}

func TestEmbedDimensionAndNorm(t *testing.T) {
	e := prepared(t, []string{
		"la vía terciaria conecta veredas",
		"el puente cruza el río",
	})
	vec, err := e.Embed("vía terciaria")
	require.NoError(t, err)
	assert.Len(t, vec, e.Dimension())

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestEmbedAccentInsensitive(t *testing.T) {
	e := prepared(t, []string{
		"la vía terciaria conecta veredas",
		"el puente cruza el río",
	})
	withAccent, err := e.Embed("vía")
	require.NoError(t, err)
	without, err := e.Embed("via")
	require.NoError(t, err)
	assert.Equal(t, withAccent, without)
}

func TestEmbedUnknownTokensIsZeroVector(t *testing.T) {
	e := prepared(t, []string{"la vía terciaria conecta veredas"})
	vec, err := e.Embed("presupuesto educativo")
	require.NoError(t, err)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}
