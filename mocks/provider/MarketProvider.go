package provider

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
	domain "github.com/vadiminshakov/emascan/internal/domain"
)

// MarketProvider is a mock type for the MarketProvider type
type MarketProvider struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (_m *MarketProvider) Name() string {
	ret := _m.Called()

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// GetMarkets provides a mock function with given fields: ctx, quote
func (_m *MarketProvider) GetMarkets(ctx context.Context, quote string) ([]domain.Market, error) {
	ret := _m.Called(ctx, quote)

	var r0 []domain.Market
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]domain.Market, error)); ok {
		return rf(ctx, quote)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []domain.Market); ok {
		r0 = rf(ctx, quote)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Market)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, quote)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetCandles provides a mock function with given fields: ctx, symbol, tf
func (_m *MarketProvider) GetCandles(ctx context.Context, symbol string, tf domain.Timeframe) ([]domain.Candle, error) {
	ret := _m.Called(ctx, symbol, tf)

	var r0 []domain.Candle
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.Timeframe) ([]domain.Candle, error)); ok {
		return rf(ctx, symbol, tf)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.Timeframe) []domain.Candle); ok {
		r0 = rf(ctx, symbol, tf)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Candle)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, domain.Timeframe) error); ok {
		r1 = rf(ctx, symbol, tf)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMarketProvider creates a new instance of MarketProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMarketProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MarketProvider {
	m := &MarketProvider{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
