package tfidf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed_NotPrepared(t *testing.T) {
	e := NewEmbedder()

	_, err := e.Embed(context.Background(), "cloud")

	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestEmbedder_Prepare_EmptyCorpus(t *testing.T) {
	_, err := NewPreparedEmbedder(nil)

	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestEmbedder_Embed_NormalizedAndDeterministic(t *testing.T) {
	e, err := NewPreparedEmbedder([]string{
		"클라우드 컴퓨팅과 AI 솔루션",
		"검색 광고 플랫폼",
		"온라인 쇼핑과 클라우드 인프라",
	})
	require.NoError(t, err)

	first, err := e.Embed(context.Background(), "클라우드 AI 가격")
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), "클라우드 AI 가격")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, e.Dimension())

	var norm float64
	for _, v := range first {
		norm += v * v
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedder_Embed_StripsParticles(t *testing.T) {
	e, err := NewPreparedEmbedder([]string{"마이크로소프트 클라우드", "검색 광고"})
	require.NoError(t, err)

	withParticle, err := e.Embed(context.Background(), "마이크로소프트의 클라우드는")
	require.NoError(t, err)
	plain, err := e.Embed(context.Background(), "마이크로소프트 클라우드")
	require.NoError(t, err)

	assert.InDeltaSlice(t, plain, withParticle, 1e-9)
}

func TestEmbedder_Embed_UnknownTermsYieldZeroVector(t *testing.T) {
	e, err := NewPreparedEmbedder([]string{"cloud computing"})
	require.NoError(t, err)

	vec, err := e.Embed(context.Background(), "banana")
	require.NoError(t, err)

	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedder_Embed_CancelledContext(t *testing.T) {
	e, err := NewPreparedEmbedder([]string{"cloud"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = e.Embed(ctx, "cloud")
	assert.ErrorIs(t, err, context.Canceled)
}
