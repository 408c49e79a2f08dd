package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	wrapErrors "github.com/linlinbupt123-crypto/lumos_service/errors"
	"github.com/linlinbupt123-crypto/lumos_service/repository"
)

func TestPositionLifecycle(t *testing.T) {
	svc := NewPositionService(repository.NewMemoryPositionStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	id, err := svc.CreatePosition(ctx, PositionInput{UID: "u1", Token: "ETH", TotalValue: 1500, Protocol: "ekubo"})
	require.NoError(t, err)

	_, err = svc.CreatePosition(ctx, PositionInput{UID: "u2", Token: "STRK", TotalValue: 20, Protocol: "ekubo"})
	require.NoError(t, err)

	mine, err := svc.ListPositionsByUID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ETH", mine[0].Token)

	all, err := svc.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	updated, err := svc.UpdatePosition(ctx, id, PositionInput{Token: "ETH", TotalValue: 1750, Protocol: "ekubo"})
	require.NoError(t, err)
	assert.Equal(t, 1750.0, updated.TotalValue)

	got, err := svc.GetPosition(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1750.0, got.TotalValue)

	ok, err := svc.DeletePosition(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.GetPosition(ctx, id)
	assert.Equal(t, wrapErrors.CodeNotFound, wrapErrors.CodeOf(err))
}

func TestPositionValidation(t *testing.T) {
	svc := NewPositionService(repository.NewMemoryPositionStore(), zaptest.NewLogger(t))
	ctx := context.Background()

	tests := []struct {
		name string
		in   PositionInput
	}{
		{"missing uId", PositionInput{Token: "ETH", TotalValue: 1, Protocol: "ekubo"}},
		{"missing token", PositionInput{UID: "u1", TotalValue: 1, Protocol: "ekubo"}},
		{"zero value", PositionInput{UID: "u1", Token: "ETH", Protocol: "ekubo"}},
		{"missing protocol", PositionInput{UID: "u1", Token: "ETH", TotalValue: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePosition(ctx, tt.in)
			assert.Equal(t, wrapErrors.CodeInvalidInput, wrapErrors.CodeOf(err))
		})
	}

	_, err := svc.UpdatePosition(ctx, "65f000000000000000000000", PositionInput{Token: "ETH", TotalValue: 1, Protocol: "ekubo"})
	assert.Equal(t, wrapErrors.CodeNotFound, wrapErrors.CodeOf(err))

	_, err = svc.DeletePosition(ctx, "")
	assert.Equal(t, wrapErrors.CodeInvalidInput, wrapErrors.CodeOf(err))
}
