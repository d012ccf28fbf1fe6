package contract

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/malm0d/contract-interfacer/internal/chain"
	"github.com/malm0d/contract-interfacer/internal/wallet"
)

const testMnemonic = "test test test test test test test test test test test junk"

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.FromPhrase(testMnemonic, 0, 11155111)
	require.NoError(t, err)
	return w
}

func TestBuildCallReadVariants(t *testing.T) {
	w := testWallet(t)

	call, err := BuildCall("address", big.NewInt(0), nil, w)
	require.NoError(t, err)
	assert.IsType(t, AddressCall{}, call)

	call, err = BuildCall("minted", big.NewInt(0), nil, w)
	require.NoError(t, err)
	assert.IsType(t, MintedCall{}, call)

	call, err = BuildCall("mintingCost", big.NewInt(0), nil, w)
	require.NoError(t, err)
	assert.IsType(t, MintingCostCall{}, call)

	call, err = BuildCall("balanceOf", big.NewInt(0), []string{testHolder}, w)
	require.NoError(t, err)
	bc, ok := call.(BalanceOfCall)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(testHolder), bc.Holder)

	call, err = BuildCall("owned", big.NewInt(0), []string{testHolder}, w)
	require.NoError(t, err)
	oc, ok := call.(OwnedCall)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(testHolder), oc.Owner)
}

func TestBuildCallWriteVariants(t *testing.T) {
	w := testWallet(t)

	call, err := BuildCall("transfer", big.NewInt(0), []string{testRecipient, "1000"}, w)
	require.NoError(t, err)
	tc, ok := call.(TransferCall)
	require.True(t, ok)
	assert.Same(t, w, tc.From)
	assert.Equal(t, common.HexToAddress(testRecipient), tc.To)
	assert.Equal(t, int64(1000), tc.Amount.Int64())

	value := big.NewInt(2_000_000_000)
	call, err = BuildCall("mintERC721", value, []string{"2"}, w)
	require.NoError(t, err)
	mc, ok := call.(MintERC721Call)
	require.True(t, ok)
	assert.Equal(t, int64(2), mc.Units.Int64())
	assert.Equal(t, value, mc.Value)

	call, err = BuildCall("mint", big.NewInt(0), []string{testRecipient, "500"}, w)
	require.NoError(t, err)
	mnc, ok := call.(MintCall)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress(testRecipient), mnc.To)
	assert.Equal(t, int64(500), mnc.Amount.Int64())
}

func TestBuildCallErrors(t *testing.T) {
	w := testWallet(t)

	_, err := BuildCall("approve", big.NewInt(0), []string{testRecipient, "1"}, w)
	assert.ErrorIs(t, err, ErrUnsupportedFunction)

	_, err = BuildCall("transfer", big.NewInt(0), []string{"garbage", "1"}, w)
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, 0, argErr.Position)
}

func TestIsWrite(t *testing.T) {
	w := testWallet(t)

	assert.False(t, IsWrite(AddressCall{}))
	assert.False(t, IsWrite(BalanceOfCall{}))
	assert.False(t, IsWrite(MintedCall{}))
	assert.False(t, IsWrite(MintingCostCall{}))
	assert.False(t, IsWrite(OwnedCall{}))
	assert.True(t, IsWrite(TransferCall{From: w}))
	assert.True(t, IsWrite(MintERC721Call{From: w}))
	assert.True(t, IsWrite(MintCall{From: w}))
}

// fakeToken records invocations and serves canned answers.
type fakeToken struct {
	address   common.Address
	balance   *big.Int
	minted    *big.Int
	cost      *big.Int
	owned     []*big.Int
	summary   *chain.TxSummary
	err       error
	lastWrite string
}

func (f *fakeToken) Address() common.Address { return f.address }

func (f *fakeToken) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	return f.balance, f.err
}

func (f *fakeToken) Minted(ctx context.Context) (*big.Int, error) { return f.minted, f.err }

func (f *fakeToken) MintingCost(ctx context.Context) (*big.Int, error) { return f.cost, f.err }

func (f *fakeToken) Owned(ctx context.Context, owner common.Address) ([]*big.Int, error) {
	return f.owned, f.err
}

func (f *fakeToken) Transfer(ctx context.Context, from *wallet.Wallet, to common.Address, amount *big.Int) (*chain.TxSummary, error) {
	f.lastWrite = "transfer"
	return f.summary, f.err
}

func (f *fakeToken) MintERC721(ctx context.Context, from *wallet.Wallet, units, value *big.Int) (*chain.TxSummary, error) {
	f.lastWrite = "mintERC721"
	return f.summary, f.err
}

func (f *fakeToken) Mint(ctx context.Context, from *wallet.Wallet, to common.Address, amount *big.Int) (*chain.TxSummary, error) {
	f.lastWrite = "mint"
	return f.summary, f.err
}

func TestExecuteReads(t *testing.T) {
	ctx := context.Background()
	token := &fakeToken{
		address: common.HexToAddress(testRecipient),
		balance: big.NewInt(100),
		minted:  big.NewInt(7),
		cost:    big.NewInt(1_000_000),
		owned:   []*big.Int{big.NewInt(3), big.NewInt(9)},
	}

	res, err := Execute(ctx, token, AddressCall{})
	require.NoError(t, err)
	assert.Equal(t, AddressResult{Value: token.address}, res)

	res, err = Execute(ctx, token, BalanceOfCall{Holder: common.HexToAddress(testHolder)})
	require.NoError(t, err)
	assert.Equal(t, UintResult{Value: big.NewInt(100)}, res)

	res, err = Execute(ctx, token, MintedCall{})
	require.NoError(t, err)
	assert.Equal(t, UintResult{Value: big.NewInt(7)}, res)

	res, err = Execute(ctx, token, MintingCostCall{})
	require.NoError(t, err)
	assert.Equal(t, UintResult{Value: big.NewInt(1_000_000)}, res)

	res, err = Execute(ctx, token, OwnedCall{Owner: common.HexToAddress(testHolder)})
	require.NoError(t, err)
	assert.Equal(t, UintListResult{Values: token.owned}, res)
}

func TestExecuteWrites(t *testing.T) {
	ctx := context.Background()
	w := testWallet(t)
	summary := &chain.TxSummary{Hash: "0xabc", GasUsed: "53000"}
	token := &fakeToken{summary: summary}

	res, err := Execute(ctx, token, TransferCall{From: w, To: common.HexToAddress(testRecipient), Amount: big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, StateChangeResult{Summary: summary}, res)
	assert.Equal(t, "transfer", token.lastWrite)

	_, err = Execute(ctx, token, MintERC721Call{From: w, Units: big.NewInt(2), Value: big.NewInt(0)})
	require.NoError(t, err)
	assert.Equal(t, "mintERC721", token.lastWrite)

	_, err = Execute(ctx, token, MintCall{From: w, To: common.HexToAddress(testRecipient), Amount: big.NewInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "mint", token.lastWrite)
}

func TestExecutePropagatesErrors(t *testing.T) {
	token := &fakeToken{err: ErrChainRejected}
	_, err := Execute(context.Background(), token, MintedCall{})
	assert.ErrorIs(t, err, ErrChainRejected)
}
