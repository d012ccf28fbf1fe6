package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ABIEntry is a single ABI function entry.
type ABIEntry struct {
	Name            string
	Type            string
	Inputs          []ABIParam
	Outputs         []ABIParam
	StateMutability string
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string
	Type string
}

// IsWriteFunction reports whether the entry mutates state.
func (e *ABIEntry) IsWriteFunction() bool {
	return e.StateMutability == "nonpayable" || e.StateMutability == "payable"
}

// purse404ABI covers the PURSE-404 functions this tool drives.
//
// Well-known selectors for reference:
//
//	balanceOf(address)        → 0x70a08231
//	minted()                  → 0x4f02c420
//	transfer(address,uint256) → 0xa9059cbb
//	mint(address,uint256)     → 0x40c10f19
var purse404ABI = []ABIEntry{
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "minted", Type: "function",
		Inputs:          nil,
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "mintingCost", Type: "function",
		Inputs:          nil,
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "owned", Type: "function",
		Inputs:          []ABIParam{{Name: "owner", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256[]"}},
		StateMutability: "view",
	},
	{
		Name: "transfer", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
		Outputs:         []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "nonpayable",
	},
	{
		Name: "mintERC721", Type: "function",
		Inputs:          []ABIParam{{Name: "units", Type: "uint256"}},
		Outputs:         nil,
		StateMutability: "payable",
	},
	{
		Name: "mint", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}},
		Outputs:         nil,
		StateMutability: "nonpayable",
	},
}

func findFunction(name string) *ABIEntry {
	for i := range purse404ABI {
		if purse404ABI[i].Type == "function" && purse404ABI[i].Name == name {
			return &purse404ABI[i]
		}
	}
	return nil
}

// --- ABI encoding (static types only; the PURSE-404 surface needs no more) ---

// encodeCall builds calldata: 4-byte selector + encoded args.
func encodeCall(fn *ABIEntry, args []string) (string, error) {
	var encoded strings.Builder
	encoded.WriteString(functionSelector(fn))

	for i, param := range fn.Inputs {
		var argStr string
		if i < len(args) {
			argStr = args[i]
		}
		enc, err := encodeParam(param.Type, argStr)
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
		}
		encoded.WriteString(enc)
	}

	return encoded.String(), nil
}

// functionSelector computes the 4-byte selector for a function.
func functionSelector(fn *ABIEntry) string {
	sig := fn.Name + "("
	types := make([]string, len(fn.Inputs))
	for i, p := range fn.Inputs {
		types[i] = p.Type
	}
	sig += strings.Join(types, ",") + ")"

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// encodeParam encodes a single ABI parameter value as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	switch {
	case typ == "address":
		v := strings.TrimPrefix(val, "0x")
		if len(v) != 40 {
			return "", fmt.Errorf("invalid address: %s", val)
		}
		return fmt.Sprintf("%064s", strings.ToLower(v)), nil

	case strings.HasPrefix(typ, "uint"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 10); !ok || n.Sign() < 0 {
			return "", fmt.Errorf("invalid unsigned integer: %s", val)
		}
		return fmt.Sprintf("%064x", n), nil

	default:
		return "", fmt.Errorf("unsupported ABI type: %s", typ)
	}
}

// decodeUint256 decodes a single uint256 return value.
func decodeUint256(hexData string) (*big.Int, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	if len(data) == 0 {
		return new(big.Int), nil
	}
	if len(data) < 32 {
		return nil, fmt.Errorf("short return data: %d bytes", len(data))
	}
	return new(big.Int).SetBytes(data[:32]), nil
}

// decodeUint256Array decodes a dynamic uint256[] return value
// (offset word, length word, then elements).
func decodeUint256Array(hexData string) ([]*big.Int, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 64 {
		return nil, fmt.Errorf("short return data: %d bytes", len(data))
	}

	offset := new(big.Int).SetBytes(data[:32]).Uint64()
	if offset+32 > uint64(len(data)) {
		return nil, fmt.Errorf("array offset out of range: %d", offset)
	}
	length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()

	elems := make([]*big.Int, 0, length)
	pos := offset + 32
	for i := uint64(0); i < length; i++ {
		if pos+32 > uint64(len(data)) {
			return nil, fmt.Errorf("array element %d out of range", i)
		}
		elems = append(elems, new(big.Int).SetBytes(data[pos:pos+32]))
		pos += 32
	}
	return elems, nil
}
