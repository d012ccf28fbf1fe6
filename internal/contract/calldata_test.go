package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testRecipient = "0xdF7eD90AC34a1492fD0240ea385bab6872a96527"
	testHolder    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		function string
		calldata []string
		wantErr  bool
	}{
		// Zero-arity functions require the calldata flag to be absent.
		{"address no calldata", "address", nil, false},
		{"minted no calldata", "minted", nil, false},
		{"mintingCost no calldata", "mintingCost", nil, false},
		{"minted with empty present calldata", "minted", []string{}, true},
		{"minted with calldata", "minted", []string{"1"}, true},

		// Single-argument functions.
		{"balanceOf one arg", "balanceOf", []string{testHolder}, false},
		{"balanceOf absent", "balanceOf", nil, true},
		{"balanceOf empty present", "balanceOf", []string{}, true},
		{"balanceOf two args", "balanceOf", []string{testHolder, "1"}, true},
		{"owned one arg", "owned", []string{testHolder}, false},
		{"mintERC721 one arg", "mintERC721", []string{"2"}, false},
		{"mintERC721 two args", "mintERC721", []string{"2", "3"}, true},

		// Two-argument functions.
		{"transfer two args", "transfer", []string{testRecipient, "1000"}, false},
		{"transfer one arg", "transfer", []string{testRecipient}, true},
		{"transfer three args", "transfer", []string{testRecipient, "1", "2"}, true},
		{"mint two args", "mint", []string{testRecipient, "1000"}, false},
		{"mint absent", "mint", nil, true},

		// Unknown functions are rejected regardless of calldata shape.
		{"unknown function", "approve", []string{testRecipient, "1"}, true},
		{"empty function", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.function, tt.calldata)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFunction)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecipientAndAmountTransfer(t *testing.T) {
	recipient, amount, err := RecipientAndAmount("transfer", []string{testRecipient, "1000000000000000000"})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testRecipient), recipient)
	assert.Equal(t, "1000000000000000000", amount.String())
}

func TestRecipientAndAmountMintERC721(t *testing.T) {
	// No on-chain recipient argument; the amount is the unit count.
	recipient, amount, err := RecipientAndAmount("mintERC721", []string{"2"})
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, recipient)
	assert.Equal(t, int64(2), amount.Int64())
}

func TestRecipientAndAmountReadFunctions(t *testing.T) {
	for _, fn := range []string{"address", "minted", "mintingCost", "balanceOf", "owned"} {
		recipient, amount, err := RecipientAndAmount(fn, []string{testHolder})
		require.NoError(t, err, fn)
		assert.Equal(t, common.Address{}, recipient, fn)
		assert.Equal(t, int64(0), amount.Int64(), fn)
	}
}

func TestRecipientAndAmountBadAddress(t *testing.T) {
	_, _, err := RecipientAndAmount("transfer", []string{"not-an-address", "1000"})
	require.Error(t, err)

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, 0, argErr.Position)
	assert.Equal(t, "not-an-address", argErr.Raw)
}

func TestRecipientAndAmountBadAmount(t *testing.T) {
	_, _, err := RecipientAndAmount("transfer", []string{testRecipient, "-5"})
	require.Error(t, err)

	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, 1, argErr.Position)
}

func TestParseAmountBounds(t *testing.T) {
	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	n, err := parseAmount(0, max.String())
	require.NoError(t, err)
	assert.Equal(t, max, n)

	over := new(big.Int).Add(max, big.NewInt(1))
	_, err = parseAmount(0, over.String())
	assert.Error(t, err)

	_, err = parseAmount(0, "0x10") // hex not accepted, decimal only
	assert.Error(t, err)
}
