package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ethereum/go-ethereum/common"

	"swapd/params"
	"swapd/pkg/api"
	"swapd/pkg/order"
	"swapd/pkg/storage"
	"swapd/pkg/trader"
	"swapd/pkg/util"
	"swapd/pkg/wallet"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/agent.log"
	}
	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if cfg.Chain.RPCURL == "" || cfg.Chain.PrivateKey == "" || cfg.Chain.TraderContract == "" {
		sugar.Fatalw("missing_chain_config",
			"hint", "set RPC_URL, PRIVATE_KEY and TRADER_CONTRACT")
	}

	signer, err := wallet.FromPrivateKeyHex(cfg.Chain.PrivateKey)
	if err != nil {
		sugar.Fatalw("invalid_private_key", "err", err)
	}
	sugar.Infow("wallet_loaded", "address", signer.Address().Hex())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- On-chain trader (oracle + executor) ----
	weth := common.HexToAddress(cfg.Chain.WETH)
	client, err := trader.Dial(ctx, cfg.Chain.RPCURL, signer,
		common.HexToAddress(cfg.Chain.TraderContract), weth, cfg.Chain.ChainID, sugar)
	if err != nil {
		sugar.Fatalw("trader_dial_failed", "err", err)
	}
	defer client.Close()

	// ---- Trade log ----
	tradeLog, err := storage.OpenTradeLog(filepath.Join(cfg.Storage.DataDir, "trades"))
	if err != nil {
		sugar.Fatalw("trade_log_open_failed", "err", err)
	}
	defer tradeLog.Close()

	// ---- Order engine + API ----
	hub := api.NewHub()

	svc := order.NewService(ctx, client, client, sugar, order.Options{
		WETH:            weth,
		PollInterval:    cfg.Orders.PollInterval,
		ExecSlippageBps: cfg.Orders.ExecSlippageBps,
		Recorder:        tradeLog,
		Events:          hub,
	})
	defer svc.Close()

	server := api.NewServer(svc, tradeLog, hub)
	go func() {
		if err := server.Start(ctx, cfg.API.Addr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	sugar.Infow("agent_running",
		"api_addr", cfg.API.Addr,
		"poll_interval", cfg.Orders.PollInterval.String(),
		"exec_slippage_bps", cfg.Orders.ExecSlippageBps)

	<-ctx.Done()
	sugar.Info("shutting down")
}
