package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BaseCurrency is the currency every converted price is expressed in.
const BaseCurrency = "BRL"

// ExchangeRates maps a currency code to its value in BaseCurrency.
type ExchangeRates map[string]decimal.Decimal

type ExchangeRateHolder struct {
	current atomic.Value // holds ExchangeRates
}

// NewExchangeRateHolder loads exchange_rates.yml and keeps it in sync with the file.
// A missing file yields an empty table, which disables automatic conversion.
func NewExchangeRateHolder(cfg Config, log *zap.Logger) (*ExchangeRateHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.exchange_rates")

	v := viper.New()
	if cfg.ExchangeRatesPath != "" {
		v.SetConfigFile(cfg.ExchangeRatesPath)
	} else {
		v.SetConfigName("exchange_rates")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/pricehub")
		v.AddConfigPath(".")
	}

	holder := &ExchangeRateHolder{}
	holder.current.Store(ExchangeRates{})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			log.Info("exchange rate file not found, conversion disabled", zap.String("path", cfg.ExchangeRatesPath))
			return holder, nil
		}
		return nil, err
	}

	rates, err := parseExchangeRates(v.GetStringMapString("exchangeRates"))
	if err != nil {
		return nil, err
	}
	holder.current.Store(rates)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := parseExchangeRates(v.GetStringMapString("exchangeRates"))
		if err != nil {
			log.Warn("invalid exchange rates ignored", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("exchange rates reloaded", zap.String("file", e.Name), zap.Int("currencies", len(updated)))
	})

	return holder, nil
}

// NewStaticExchangeRateHolder returns a holder that never reloads.
func NewStaticExchangeRateHolder(rates ExchangeRates) *ExchangeRateHolder {
	holder := &ExchangeRateHolder{}
	if rates == nil {
		rates = ExchangeRates{}
	}
	holder.current.Store(rates)
	return holder
}

func (h *ExchangeRateHolder) Get() ExchangeRates {
	if h == nil {
		return ExchangeRates{}
	}
	return h.current.Load().(ExchangeRates)
}

// Rate returns the BaseCurrency value of one unit of currency.
func (h *ExchangeRateHolder) Rate(currency string) (decimal.Decimal, bool) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == BaseCurrency {
		return decimal.NewFromInt(1), true
	}
	rate, ok := h.Get()[currency]
	return rate, ok
}

func parseExchangeRates(raw map[string]string) (ExchangeRates, error) {
	rates := make(ExchangeRates, len(raw))
	for code, value := range raw {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			return nil, fmt.Errorf("exchange rate with empty currency code")
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("exchange rate %s: %w", code, err)
		}
		if rate.Sign() <= 0 {
			return nil, fmt.Errorf("exchange rate %s must be positive", code)
		}
		rates[code] = rate
	}
	return rates, nil
}
