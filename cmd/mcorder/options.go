package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/danmuck/mcorder/internal/client"
	"github.com/danmuck/mcorder/internal/config"
)

const usage = `usage: mcorder [global flags] <command> [command flags]

commands:
  submit   send an order submit frame, then print broadcasts
  cancel   send an order cancel frame, then print broadcasts
  listen   print broadcasts from the result group
  config   write or validate a config file
`

type globalOptions struct {
	configPath  string
	tradeAddr   string
	resultAddr  string
	ttl         int
	metricsAddr string
	strict      bool
	noListen    bool
	set         map[string]bool
}

func parseGlobal(args []string, stderr io.Writer) (globalOptions, []string, error) {
	var opts globalOptions
	fs := flag.NewFlagSet("mcorder", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nglobal flags:")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&opts.tradeAddr, "trade-addr", config.DefaultTradeAddr, "multicast group (ip:port) receiving order requests")
	fs.StringVar(&opts.resultAddr, "result-addr", config.DefaultResultAddr, "multicast group (ip:port) publishing results")
	fs.IntVar(&opts.ttl, "ttl", config.DefaultTTL, "outbound multicast ttl")
	fs.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /health and /metrics on host:port")
	fs.BoolVar(&opts.strict, "strict-checksum", false, "drop broadcasts whose checksum does not verify")
	fs.BoolVar(&opts.noListen, "no-listen", false, "exit after sending instead of printing broadcasts")
	if err := fs.Parse(args); err != nil {
		return globalOptions{}, nil, err
	}
	opts.set = visited(fs)
	return opts, fs.Args(), nil
}

// resolveConfig applies defaults, then the config file, then explicit flags.
func resolveConfig(opts globalOptions) (config.ClientConfig, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.ClientConfig{}, err
		}
		cfg = loaded
	}
	if opts.set["trade-addr"] {
		cfg.TradeAddr = strings.TrimSpace(opts.tradeAddr)
	}
	if opts.set["result-addr"] {
		cfg.ResultAddr = strings.TrimSpace(opts.resultAddr)
	}
	if opts.set["ttl"] {
		cfg.TTL = opts.ttl
	}
	if opts.set["metrics-addr"] {
		cfg.MetricsAddr = strings.TrimSpace(opts.metricsAddr)
	}
	if opts.set["strict-checksum"] {
		cfg.StrictChecksum = opts.strict
	}
	if err := config.Validate(cfg); err != nil {
		return config.ClientConfig{}, err
	}
	return cfg, nil
}

func parseSubmit(args []string, decimals int32, stderr io.Writer) (client.SubmitRequest, error) {
	var (
		productID uint64
		price     string
		quantity  uint64
		side      string
		priceKind string
		expire    uint64
	)
	fs := flag.NewFlagSet("submit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Uint64Var(&productID, "product-id", 0, "product id (u16)")
	fs.StringVar(&price, "price", "", "price; may carry up to price_decimals decimal places")
	fs.Uint64Var(&quantity, "quantity", 0, "quantity (u32)")
	fs.StringVar(&side, "side", "", "buy or sell")
	fs.StringVar(&priceKind, "price-kind", "", "limit or market")
	fs.Uint64Var(&expire, "expire", 0, "expiry in whole seconds (0 = good-till-cancelled)")
	if err := fs.Parse(args); err != nil {
		return client.SubmitRequest{}, err
	}
	if err := requireFlags(fs, "product-id", "price", "quantity", "side", "price-kind"); err != nil {
		return client.SubmitRequest{}, err
	}
	if productID > math.MaxUint16 {
		return client.SubmitRequest{}, fmt.Errorf("submit: product-id %d exceeds %d", productID, math.MaxUint16)
	}
	if quantity > math.MaxUint32 {
		return client.SubmitRequest{}, fmt.Errorf("submit: quantity %d exceeds %d", quantity, uint64(math.MaxUint32))
	}
	ticks, err := client.ParsePrice(price, decimals)
	if err != nil {
		return client.SubmitRequest{}, fmt.Errorf("submit: %w", err)
	}
	s, err := client.ParseSide(side)
	if err != nil {
		return client.SubmitRequest{}, fmt.Errorf("submit: %w", err)
	}
	k, err := client.ParsePriceKind(priceKind)
	if err != nil {
		return client.SubmitRequest{}, fmt.Errorf("submit: %w", err)
	}
	return client.SubmitRequest{
		ProductID:   uint16(productID),
		Price:       ticks,
		Quantity:    uint32(quantity),
		Side:        s,
		PriceKind:   k,
		ExpireAfter: expire,
	}, nil
}

func parseCancel(args []string, stderr io.Writer) (uint64, error) {
	var orderID uint64
	fs := flag.NewFlagSet("cancel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Uint64Var(&orderID, "order-id", 0, "order id to cancel (u64)")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	if err := requireFlags(fs, "order-id"); err != nil {
		return 0, err
	}
	return orderID, nil
}

type configOptions struct {
	output   string
	validate string
	force    bool
}

func parseConfigCommand(args []string, stderr io.Writer) (configOptions, error) {
	var opts configOptions
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "output", "", "write a config template to this path")
	fs.StringVar(&opts.validate, "validate", "", "validate an existing config file")
	fs.BoolVar(&opts.force, "force", false, "overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return configOptions{}, err
	}
	if (opts.output == "") == (opts.validate == "") {
		return configOptions{}, errors.New("config: exactly one of -output or -validate is required")
	}
	return opts, nil
}

func requireFlags(fs *flag.FlagSet, names ...string) error {
	set := visited(fs)
	var missing []string
	for _, name := range names {
		if !set[name] {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required flags: %s", fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
