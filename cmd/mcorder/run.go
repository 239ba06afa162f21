package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/danmuck/mcorder/internal/client"
	"github.com/danmuck/mcorder/internal/config"
	"github.com/danmuck/mcorder/internal/observability"
	"github.com/danmuck/mcorder/internal/protocol"
	"github.com/danmuck/mcorder/internal/transport"
	"github.com/rs/zerolog/log"
)

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, rest, err := parseGlobal(args, os.Stderr)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return errors.New("missing command")
	}
	cmd, cmdArgs := rest[0], rest[1:]

	if cmd == "config" {
		return runConfig(cmdArgs, out)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	switch cmd {
	case "submit":
		req, err := parseSubmit(cmdArgs, cfg.PriceDecimals, os.Stderr)
		if err != nil {
			return err
		}
		return runRequest(ctx, cfg, opts.noListen, out, func(r *client.Requester) (client.Sent, error) {
			return r.Submit(req)
		})
	case "cancel":
		orderID, err := parseCancel(cmdArgs, os.Stderr)
		if err != nil {
			return err
		}
		return runRequest(ctx, cfg, opts.noListen, out, func(r *client.Requester) (client.Sent, error) {
			return r.Cancel(orderID)
		})
	case "listen":
		startMetrics(ctx, cfg)
		listener, err := transport.OpenMulticastListener(ctx, cfg.ResultAddr)
		if err != nil {
			return err
		}
		return listen(ctx, cfg, listener, out)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runRequest(ctx context.Context, cfg config.ClientConfig, noListen bool, out io.Writer, do func(*client.Requester) (client.Sent, error)) error {
	dest, err := transport.ResolveUDP4(cfg.TradeAddr)
	if err != nil {
		return err
	}
	sender, err := transport.OpenSender()
	if err != nil {
		return err
	}
	defer sender.Close()
	sender.ConfigureTTL(cfg.TradeAddr, cfg.TTL)

	// Join before sending so results for this request are not missed.
	var listener *transport.Listener
	if !noListen {
		startMetrics(ctx, cfg)
		listener, err = transport.OpenMulticastListener(ctx, cfg.ResultAddr)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Target Trade Address: %s\n", cfg.TradeAddr)
	fmt.Fprintf(out, "Result  Address: %s\n", cfg.ResultAddr)

	sent, err := do(client.NewRequester(sender, dest))
	if err != nil {
		if listener != nil {
			_ = listener.Close()
		}
		return err
	}
	printSent(out, sent)

	if listener == nil {
		return nil
	}
	return listen(ctx, cfg, listener, out)
}

func listen(ctx context.Context, cfg config.ClientConfig, listener *transport.Listener, out io.Writer) error {
	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer func() {
		if stop() {
			_ = listener.Close()
		}
	}()

	fmt.Fprintf(out, "\nListening for broadcasts on %s (Ctrl+C to stop)\n", cfg.ResultAddr)
	return client.ReceiveLoop(ctx, listener, client.LoopOptions{
		StrictChecksum: cfg.StrictChecksum,
		Handler: func(src *net.UDPAddr, msg protocol.Rendered) {
			fmt.Fprintf(out, "[%s] %s\n", src, msg)
		},
	})
}

func printSent(out io.Writer, sent client.Sent) {
	switch sent.Type {
	case protocol.MsgOrderSubmit:
		fmt.Fprintf(out, "--- Order Submit Request (Sent to %s) ---\n", sent.Dest)
		fmt.Fprintf(out, "Order ID: %d\n", sent.Order.OrderID)
		fmt.Fprintf(out, "Product ID: %d\n", sent.Order.ProductID)
		fmt.Fprintf(out, "Price: %d, Quantity: %d\n", sent.Order.Price, sent.Order.Quantity)
	case protocol.MsgOrderCancel:
		fmt.Fprintf(out, "--- Order Cancel Request (Sent to %s) ---\n", sent.Dest)
		fmt.Fprintf(out, "Order ID to Cancel: %d\n", sent.Cancel.OrderID)
	}
	fmt.Fprintf(out, "Serialized Message (%d bytes): %v\n", protocol.FrameSize, sent.Frame[:])
}

func startMetrics(ctx context.Context, cfg config.ClientConfig) {
	if cfg.MetricsAddr == "" {
		return
	}
	go func() {
		if err := observability.ServeMetrics(ctx, cfg.MetricsAddr); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics endpoint stopped")
		}
	}()
}

func runConfig(args []string, out io.Writer) error {
	opts, err := parseConfigCommand(args, os.Stderr)
	if err != nil {
		return err
	}
	if opts.validate != "" {
		if _, err := config.Load(opts.validate); err != nil {
			return err
		}
		fmt.Fprintf(out, "Validated config at %s\n", opts.validate)
		return nil
	}
	if err := config.WriteTemplate(opts.output, opts.force); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote config template to %s\n", opts.output)
	return nil
}
