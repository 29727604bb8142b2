package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Chain struct {
	RPCURL     string
	PrivateKey string // hex, with or without 0x prefix
	ChainID    int64

	// Deployed UniswapTrader contract (quote + market swap entrypoints).
	TraderContract string

	// WETH is the base currency every price is denominated in.
	WETH string
}

type Orders struct {
	// PollInterval is how often each active order re-evaluates its
	// trigger. A slow tick delays that order's next tick; it never
	// overlaps it.
	PollInterval time.Duration

	// ExecSlippageBps is the slippage tolerance applied to the swap at
	// trigger time, in basis points. The tolerance supplied at placement
	// is recorded but not used at execution.
	ExecSlippageBps int64
}

type API struct {
	Addr string
}

type Storage struct {
	// DataDir holds the pebble trade log.
	DataDir string
}

type Config struct {
	Chain   Chain
	Orders  Orders
	API     API
	Storage Storage
}

func Default() Config {
	return Config{
		Chain: Chain{
			ChainID: 1,
			// Mainnet WETH
			WETH: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		},
		Orders: Orders{
			PollInterval:    15 * time.Second,
			ExecSlippageBps: 100, // 1%
		},
		API: API{
			Addr: ":3000",
		},
		Storage: Storage{
			DataDir: "data",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	cfg.Chain.RPCURL = getEnv("RPC_URL", cfg.Chain.RPCURL)
	cfg.Chain.PrivateKey = getEnv("PRIVATE_KEY", cfg.Chain.PrivateKey)
	cfg.Chain.TraderContract = getEnv("TRADER_CONTRACT", cfg.Chain.TraderContract)
	cfg.Chain.WETH = getEnv("WETH_ADDRESS", cfg.Chain.WETH)

	if id := os.Getenv("CHAIN_ID"); id != "" {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			cfg.Chain.ChainID = n
		}
	}

	if poll := os.Getenv("ORDER_POLL_INTERVAL_MS"); poll != "" {
		if ms, err := strconv.Atoi(poll); err == nil && ms > 0 {
			cfg.Orders.PollInterval = time.Duration(ms) * time.Millisecond
		}
	}

	if bps := os.Getenv("EXEC_SLIPPAGE_BPS"); bps != "" {
		if n, err := strconv.ParseInt(bps, 10, 64); err == nil && n >= 0 && n < 10000 {
			cfg.Orders.ExecSlippageBps = n
		}
	}

	cfg.API.Addr = getEnv("API_ADDR", cfg.API.Addr)
	cfg.Storage.DataDir = getEnv("DATA_DIR", cfg.Storage.DataDir)

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
