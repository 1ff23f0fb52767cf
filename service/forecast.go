package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// Forecaster 根据历史支出序列预测未来 horizon 期的支出
type Forecaster interface {
	Forecast(ctx context.Context, history []float64, horizon int) ([]float64, error)
}

// LinearForecaster 以序号为自变量做最小二乘线性拟合
type LinearForecaster struct{}

// Forecast 预测结果保留两位小数且不小于 0；无历史数据时返回空切片
func (LinearForecaster) Forecast(ctx context.Context, history []float64, horizon int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]float64, 0, horizon)
	n := len(history)
	if n == 0 || horizon <= 0 {
		return out, nil
	}

	slope, intercept := fitLine(history)
	for i := 0; i < horizon; i++ {
		y := intercept + slope*float64(n+i)
		if y < 0 {
			y = 0
		}
		out = append(out, decimal.NewFromFloat(y).Round(2).InexactFloat64())
	}
	return out, nil
}

// fitLine 返回 y = intercept + slope*x 的最小二乘解，x 为 0..n-1
func fitLine(ys []float64) (slope, intercept float64) {
	n := float64(len(ys))
	if len(ys) == 1 {
		return 0, ys[0]
	}
	var sumX, sumY float64
	for i, y := range ys {
		sumX += float64(i)
		sumY += y
	}
	meanX, meanY := sumX/n, sumY/n

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	slope = num / den
	return slope, meanY - slope*meanX
}
