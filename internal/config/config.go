package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultTradeAddr  = "239.0.0.1:5000"
	DefaultResultAddr = "239.0.0.2:5001"
	DefaultTTL        = 10
	MaxPriceDecimals  = 18
)

// ClientConfig is the full client configuration after defaults, file and
// flag overrides have been applied.
type ClientConfig struct {
	TradeAddr      string `toml:"trade_addr"`
	ResultAddr     string `toml:"result_addr"`
	TTL            int    `toml:"ttl"`
	PriceDecimals  int32  `toml:"price_decimals"`
	StrictChecksum bool   `toml:"strict_checksum"`
	MetricsAddr    string `toml:"metrics_addr"`
}

func Default() ClientConfig {
	return ClientConfig{
		TradeAddr:  DefaultTradeAddr,
		ResultAddr: DefaultResultAddr,
		TTL:        DefaultTTL,
	}
}

type fileConfig struct {
	TradeAddr      string `toml:"trade_addr"`
	ResultAddr     string `toml:"result_addr"`
	TTL            int    `toml:"ttl"`
	PriceDecimals  int32  `toml:"price_decimals"`
	StrictChecksum bool   `toml:"strict_checksum"`
	MetricsAddr    string `toml:"metrics_addr"`
}

// Load overlays the keys present in the TOML file at path onto Default.
func Load(path string) (ClientConfig, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return ClientConfig{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("trade_addr") {
		cfg.TradeAddr = strings.TrimSpace(raw.TradeAddr)
	}
	if meta.IsDefined("result_addr") {
		cfg.ResultAddr = strings.TrimSpace(raw.ResultAddr)
	}
	if meta.IsDefined("ttl") {
		cfg.TTL = raw.TTL
	}
	if meta.IsDefined("price_decimals") {
		cfg.PriceDecimals = raw.PriceDecimals
	}
	if meta.IsDefined("strict_checksum") {
		cfg.StrictChecksum = raw.StrictChecksum
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}

	if err := Validate(cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg ClientConfig) error {
	if err := validateHostPort(cfg.TradeAddr); err != nil {
		return fmt.Errorf("trade_addr: %w", err)
	}
	if err := validateHostPort(cfg.ResultAddr); err != nil {
		return fmt.Errorf("result_addr: %w", err)
	}
	host, _, _ := net.SplitHostPort(cfg.ResultAddr)
	if ip := net.ParseIP(host); ip != nil && !ip.IsMulticast() {
		return fmt.Errorf("result_addr: %s is not a multicast address", host)
	}
	if cfg.TTL < 0 || cfg.TTL > 255 {
		return fmt.Errorf("ttl out of range: %d", cfg.TTL)
	}
	if cfg.PriceDecimals < 0 || cfg.PriceDecimals > MaxPriceDecimals {
		return fmt.Errorf("price_decimals out of range: %d", cfg.PriceDecimals)
	}
	if cfg.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(cfg.MetricsAddr); err != nil {
			return fmt.Errorf("metrics_addr: %w", err)
		}
	}
	return nil
}

func validateHostPort(addr string) error {
	if strings.TrimSpace(addr) == "" {
		return fmt.Errorf("address is required")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	if host == "" {
		return fmt.Errorf("host is required")
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("invalid port %q", port)
	}
	return nil
}
