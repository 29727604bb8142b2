package trader

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"swapd/pkg/order"
	"swapd/pkg/wallet"
)

const (
	// swapGasLimit matches what the trader contract was sized against.
	swapGasLimit    = 300_000
	approveGasLimit = 60_000
)

// Client talks to the deployed UniswapTrader contract. It implements
// both order.PriceOracle (eth_call getQuote) and order.TradeExecutor
// (signed market-swap transactions plus ERC-20 approvals).
type Client struct {
	eth     *ethclient.Client
	signer  *wallet.Signer
	chainID *big.Int
	trader  common.Address
	weth    common.Address

	traderABI abi.ABI
	erc20ABI  abi.ABI

	// txMu serializes nonce assignment and submission. Different orders'
	// swaps may fire concurrently; sequencing them here keeps nonces
	// monotonic without coordinating the monitors.
	txMu sync.Mutex

	log *zap.SugaredLogger
}

func Dial(ctx context.Context, rpcURL string, signer *wallet.Signer, traderContract, weth common.Address, chainID int64, log *zap.SugaredLogger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc %s: %w", rpcURL, err)
	}

	traderABI, err := abi.JSON(strings.NewReader(traderABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse trader abi: %w", err)
	}
	erc20ABI, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	return &Client{
		eth:       eth,
		signer:    signer,
		chainID:   big.NewInt(chainID),
		trader:    traderContract,
		weth:      weth,
		traderABI: traderABI,
		erc20ABI:  erc20ABI,
		log:       log,
	}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// Quote asks the trader contract how much tokenOut amountIn of tokenIn
// buys at current pool state. Read-only eth_call, safe to poll.
func (c *Client) Quote(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int) (*big.Int, error) {
	data, err := c.traderABI.Pack("getQuote", tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, fmt.Errorf("pack getQuote: %w", err)
	}

	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		From: c.signer.Address(),
		To:   &c.trader,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("getQuote call: %w", err)
	}

	vals, err := c.traderABI.Unpack("getQuote", out)
	if err != nil {
		return nil, fmt.Errorf("unpack getQuote: %w", err)
	}
	quote, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getQuote returned %T, want *big.Int", vals[0])
	}
	return quote, nil
}

// Approve grants the trader contract an allowance over amount of token.
func (c *Client) Approve(ctx context.Context, token common.Address, amount *big.Int) error {
	data, err := c.erc20ABI.Pack("approve", c.trader, amount)
	if err != nil {
		return fmt.Errorf("pack approve: %w", err)
	}

	receipt, err := c.sendTx(ctx, token, nil, data, approveGasLimit)
	if err != nil {
		return fmt.Errorf("approve %s: %w", token.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("approve %s reverted (tx %s)", token.Hex(), receipt.TxHash.Hex())
	}

	c.log.Infow("allowance_granted", "token", token.Hex(), "amount", amount.String(), "tx", receipt.TxHash.Hex())
	return nil
}

// Swap executes a market swap through the trader contract. WETH in means
// a buy (ETH value attached); anything else is a sell of tokenIn.
func (c *Client) Swap(ctx context.Context, p order.SwapParams) (*order.Receipt, error) {
	var (
		data  []byte
		value *big.Int
		err   error
	)

	if p.TokenIn == c.weth {
		data, err = c.traderABI.Pack("executeMarketBuy", p.TokenOut, p.MinAmountOut)
		value = p.AmountIn
	} else {
		data, err = c.traderABI.Pack("executeMarketSell", p.TokenIn, p.AmountIn, p.MinAmountOut)
	}
	if err != nil {
		return nil, fmt.Errorf("pack swap: %w", err)
	}

	receipt, err := c.sendTx(ctx, c.trader, value, data, swapGasLimit)
	if err != nil {
		return nil, fmt.Errorf("swap %s -> %s: %w", p.TokenIn.Hex(), p.TokenOut.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("swap reverted (tx %s)", receipt.TxHash.Hex())
	}

	c.log.Infow("swap_mined",
		"token_in", p.TokenIn.Hex(),
		"token_out", p.TokenOut.Hex(),
		"amount_in", p.AmountIn.String(),
		"min_out", p.MinAmountOut.String(),
		"tx", receipt.TxHash.Hex(),
		"gas_used", receipt.GasUsed)

	return &order.Receipt{
		TxHash:  receipt.TxHash,
		GasUsed: receipt.GasUsed,
	}, nil
}

// sendTx signs and submits a legacy transaction, then waits for it to
// mine. Submission is serialized so concurrent callers get distinct
// nonces; the wait happens outside the lock.
func (c *Client) sendTx(ctx context.Context, to common.Address, value *big.Int, data []byte, gasLimit uint64) (*types.Receipt, error) {
	c.txMu.Lock()
	signed, err := c.signAndSend(ctx, to, value, data, gasLimit)
	c.txMu.Unlock()
	if err != nil {
		return nil, err
	}

	receipt, err := bind.WaitMined(ctx, c.eth, signed)
	if err != nil {
		return nil, fmt.Errorf("wait mined %s: %w", signed.Hash().Hex(), err)
	}
	return receipt, nil
}

func (c *Client) signAndSend(ctx context.Context, to common.Address, value *big.Int, data []byte, gasLimit uint64) (*types.Transaction, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.signer.Address())
	if err != nil {
		return nil, fmt.Errorf("pending nonce: %w", err)
	}
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.signer.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}
	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}
	return signed, nil
}

var (
	_ order.PriceOracle   = (*Client)(nil)
	_ order.TradeExecutor = (*Client)(nil)
)
