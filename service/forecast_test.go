package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearForecaster(t *testing.T) {
	f := LinearForecaster{}
	ctx := context.Background()

	got, err := f.Forecast(ctx, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	got, err = f.Forecast(ctx, []float64{42.5}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{42.5, 42.5, 42.5}, got)

	got, err = f.Forecast(ctx, []float64{10, 20, 30}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{40, 50, 60}, got)

	// 下降趋势不低于 0
	got, err = f.Forecast(ctx, []float64{30, 20, 10}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, got)

	got, err = f.Forecast(ctx, []float64{1, 2, 2, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3.5, 4.1}, got)
}

func TestLinearForecaster_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LinearForecaster{}.Forecast(ctx, []float64{1, 2}, 3)
	assert.ErrorIs(t, err, context.Canceled)
}
