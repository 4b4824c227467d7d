// Command bill prints the consolidated bill of one session, read straight from the store.
//
//	bill -config config.yaml -session T4
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"scanorder/application/session"
	"scanorder/cmd"
	"scanorder/config"
	"scanorder/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bill: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath, sessionID string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&sessionID, "session", "", "Session id; empty reads the single-device keys")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// stdout carries the bill
	cfg.Log.Output = "stderr"
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, err := cmd.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	manager, err := cmd.NewSessionManager(cfg, store, nil)
	if err != nil {
		return err
	}

	var s *session.Session
	if sessionID == "" {
		s, err = manager.OpenSingle(ctx)
	} else {
		s, err = manager.Get(ctx, sessionID)
	}
	if err != nil {
		return err
	}

	bill := session.ToBillResponse(s.Bill())
	if !bill.Consistent {
		logger.Warn("Bill lines disagree with stored order totals",
			zap.String("total", bill.Total.String()),
			zap.String("lines_total", bill.LinesTotal.String()))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(bill)
}
