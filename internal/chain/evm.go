// Package chain implements a minimal JSON-RPC client for EVM chains.
package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrTxReverted is returned when a mined transaction has status 0.
	ErrTxReverted = errors.New("transaction reverted")

	// ErrTxTimeout is returned when a transaction is not mined before the
	// caller's deadline expires.
	ErrTxTimeout = errors.New("transaction not mined before deadline")
)

// receiptPollInterval is how often WaitForReceipt polls the node.
const receiptPollInterval = 2 * time.Second

// EVMClient is a minimal JSON-RPC client for EVM chains.
type EVMClient struct {
	url    string
	client *http.Client
}

// NewEVMClient creates a new EVM JSON-RPC client pointed at url.
func NewEVMClient(url string) *EVMClient {
	return &EVMClient{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetBalance returns the native balance in wei for an address.
func (c *EVMClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	result, err := c.call(ctx, "eth_getBalance", address, "latest")
	if err != nil {
		return nil, err
	}
	return parseQuantity(result, "balance")
}

// CallContract calls a read function on a contract and returns the raw
// hex return data.
func (c *EVMClient) CallContract(ctx context.Context, toAddr, calldata string) (string, error) {
	result, err := c.call(ctx, "eth_call", map[string]string{
		"to":   toAddr,
		"data": calldata,
	}, "latest")
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return s, nil
}

// EstimateGas estimates gas for a transaction.
func (c *EVMClient) EstimateGas(ctx context.Context, from, to, data string, value *big.Int) (uint64, error) {
	params := map[string]string{
		"from": from,
		"to":   to,
	}
	if data != "" {
		params["data"] = data
	}
	if value != nil && value.Sign() > 0 {
		params["value"] = "0x" + value.Text(16)
	}

	result, err := c.call(ctx, "eth_estimateGas", params, "latest")
	if err != nil {
		return 0, err
	}
	n, err := parseQuantity(result, "gas estimate")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// GasPrice returns the current suggested gas price in wei.
func (c *EVMClient) GasPrice(ctx context.Context) (*big.Int, error) {
	result, err := c.call(ctx, "eth_gasPrice")
	if err != nil {
		return nil, err
	}
	return parseQuantity(result, "gas price")
}

// GetPendingNonce returns the transaction count including pending
// transactions, using the "pending" block tag.
func (c *EVMClient) GetPendingNonce(ctx context.Context, address string) (uint64, error) {
	result, err := c.call(ctx, "eth_getTransactionCount", address, "pending")
	if err != nil {
		return 0, err
	}
	n, err := parseQuantity(result, "nonce")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// ChainID returns the chain's ID.
func (c *EVMClient) ChainID(ctx context.Context) (uint64, error) {
	result, err := c.call(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	n, err := parseQuantity(result, "chain id")
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

// SendRawTransaction broadcasts a signed raw transaction and returns
// its hash.
func (c *EVMClient) SendRawTransaction(ctx context.Context, rawTx string) (string, error) {
	result, err := c.call(ctx, "eth_sendRawTransaction", rawTx)
	if err != nil {
		return "", err
	}
	hash, ok := result.(string)
	if !ok {
		return "", fmt.Errorf("unexpected result: %T", result)
	}
	return hash, nil
}

// Receipt holds the on-chain receipt of a mined transaction, together
// with the raw JSON payload as returned by the node.
type Receipt struct {
	Hash              string
	Status            uint64 // 1 = success, 0 = reverted
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int // wei
	Raw               json.RawMessage
}

// GetTransactionReceipt fetches the receipt for hash.
// Returns nil, nil if the transaction is still pending.
func (c *EVMClient) GetTransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	result, err := c.call(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil // still pending
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	var r struct {
		TransactionHash   string `json:"transactionHash"`
		Status            string `json:"status"`
		BlockNumber       string `json:"blockNumber"`
		GasUsed           string `json:"gasUsed"`
		EffectiveGasPrice string `json:"effectiveGasPrice"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}

	receipt := &Receipt{Hash: hash, Raw: raw}
	if r.TransactionHash != "" {
		receipt.Hash = r.TransactionHash
	}
	if s, ok := parseBigHex(r.Status); ok {
		receipt.Status = s.Uint64()
	}
	if bn, ok := parseBigHex(r.BlockNumber); ok {
		receipt.BlockNumber = bn.Uint64()
	}
	if gu, ok := parseBigHex(r.GasUsed); ok {
		receipt.GasUsed = gu.Uint64()
	}
	if gp, ok := parseBigHex(r.EffectiveGasPrice); ok {
		receipt.EffectiveGasPrice = gp
	}
	return receipt, nil
}

// WaitForReceipt polls until the transaction is mined or ctx expires.
// A mined-but-reverted transaction returns the receipt together with
// ErrTxReverted; ctx expiry returns ErrTxTimeout.
func (c *EVMClient) WaitForReceipt(ctx context.Context, hash string) (*Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.GetTransactionReceipt(ctx, hash)
		if err != nil {
			return nil, err
		}
		if receipt != nil {
			if receipt.Status == 0 {
				return receipt, fmt.Errorf("%w (hash: %s)", ErrTxReverted, hash)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w (hash: %s): %v", ErrTxTimeout, hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

// --- internal JSON-RPC plumbing ---

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	if e.Data != "" {
		return fmt.Sprintf("RPC error %d: %s (%s)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

func (c *EVMClient) call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("RPC request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	var result interface{}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return nil, fmt.Errorf("parsing result: %w", err)
	}

	return result, nil
}

func parseQuantity(result interface{}, what string) (*big.Int, error) {
	hexStr, ok := result.(string)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", result)
	}
	// Accounts the node has never seen return "0x"; that is a legitimate
	// zero, not an error.
	if hexStr == "0x" || hexStr == "" {
		return new(big.Int), nil
	}
	n, ok := parseBigHex(hexStr)
	if !ok {
		return nil, fmt.Errorf("could not parse %s hex: %s", what, hexStr)
	}
	return n, nil
}

func parseBigHex(s string) (*big.Int, bool) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, 16)
	return n, ok
}
