package trader

// ABI fragments for the deployed UniswapTrader contract and the minimal
// ERC-20 surface the agent needs. The trader contract wraps the router:
// one quote entrypoint and two market-swap entrypoints.
const traderABIJSON = `[
  {"type":"function","name":"getQuote","stateMutability":"nonpayable",
   "inputs":[{"name":"tokenIn","type":"address"},{"name":"tokenOut","type":"address"},{"name":"amountIn","type":"uint256"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"executeMarketBuy","stateMutability":"payable",
   "inputs":[{"name":"tokenOut","type":"address"},{"name":"minAmountOut","type":"uint256"}],
   "outputs":[{"name":"amountOut","type":"uint256"}]},
  {"type":"function","name":"executeMarketSell","stateMutability":"nonpayable",
   "inputs":[{"name":"tokenIn","type":"address"},{"name":"amountIn","type":"uint256"},{"name":"minAmountOut","type":"uint256"}],
   "outputs":[{"name":"amountOut","type":"uint256"}]}
]`

const erc20ABIJSON = `[
  {"type":"function","name":"approve","stateMutability":"nonpayable",
   "inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]}
]`
