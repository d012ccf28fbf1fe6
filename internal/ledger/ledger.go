// Package ledger maintains the append-only CSV audit trail of executed
// transactions. The ledger is a financial record: a malformed file is
// refused outright, never guessed at or auto-repaired.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofrs/flock"

	"github.com/malm0d/contract-interfacer/internal/chain"
)

var (
	// ErrEmptyLedger is returned when an existing ledger file has a header
	// but zero data rows. A file must never exist without at least one
	// record; this is treated as corruption, not a fresh start.
	ErrEmptyLedger = errors.New("existing ledger has no records")

	// ErrSchemaMismatch is returned when an existing ledger's header does
	// not match the expected schema in length, names, or order.
	ErrSchemaMismatch = errors.New("ledger header schema mismatch")

	// ErrLedgerLocked is returned when another process holds the ledger
	// lock. Concurrent invocations against one ledger fail fast rather
	// than interleave writes.
	ErrLedgerLocked = errors.New("ledger is locked by another process")
)

// Headers is the fixed, versioned 20-column ledger schema.
var Headers = []string{
	"Transaction Hash", "Derivation",
	"Sender",
	"Sender Balance Before (ETH)", "Sender Balance After (ETH)",
	"Sender Balance Before (ERC20)", "Sender Balance After (ERC20)",
	"Recipient",
	"Recipient Balance Before (ETH)", "Recipient Balance After (ETH)",
	"Recipient Balance Before (ERC20)", "Recipient Balance After (ERC20)",
	"Function", "Msg Value", "Calldata Value", "Msg.sender Owned Token IDs",
	"Tx Fee", "Gas Price", "Gas Used", "Receipt JSON",
}

// Row is one ledger record as stored on disk, fields in column order.
// Monetary fields are decimal ETH-unit strings.
type Row struct {
	TxHash             string
	Derivation         uint32
	Sender             string
	SenderEthBefore    string
	SenderEthAfter     string
	SenderErc20Before  string
	SenderErc20After   string
	Recipient          string
	RecipEthBefore     string
	RecipEthAfter      string
	RecipErc20Before   string
	RecipErc20After    string
	Function           string
	MsgValue           string
	CalldataValue      string
	OwnedTokenIDs      string
	TxFee              string
	GasPrice           string
	GasUsed            string
	ReceiptJSON        string
}

// Record is one executed transaction as captured by the pipeline, in
// base units. Nil balance pointers mean "not fetched" and are written
// as zero so the column count stays fixed.
type Record struct {
	TxHash            string
	Derivation        uint32
	Sender            common.Address
	SenderEthBefore   *big.Int
	SenderEthAfter    *big.Int
	SenderErc20Before *big.Int
	SenderErc20After  *big.Int
	Recipient         common.Address
	RecipEthBefore    *big.Int
	RecipEthAfter     *big.Int
	RecipErc20Before  *big.Int
	RecipErc20After   *big.Int
	Function          string
	MsgValue          *big.Int // wei
	CalldataValue     *big.Int // wei
	OwnedTokenIDs     []*big.Int
	TxFee             string // ETH, preformatted from the receipt
	GasPriceGwei      string
	GasUsed           string
	ReceiptJSON       string
}

// Store reads and appends one ledger file. Single-process,
// single-writer; Append takes an advisory lock and fails fast on
// contention.
type Store struct {
	path string
}

// NewStore creates a store for the ledger at path. The file itself is
// only created by the first successful Append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// Read parses all rows of an existing ledger. The header must match
// the fixed schema exactly or the read fails with ErrSchemaMismatch.
func (s *Store) Read() ([]Row, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable header: %v", ErrSchemaMismatch, err)
	}
	if err := checkSchema(header); err != nil {
		return nil, err
	}

	var rows []Row
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ledger: %w", err)
		}
		row, err := rowFromFields(fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ResolveDerivation suggests the next derivation index from recorded
// history: 0 for a ledger that does not exist yet, max(indices)+1
// otherwise. An existing file with zero data rows fails with
// ErrEmptyLedger.
func (s *Store) ResolveDerivation() (uint32, []uint32, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return 0, nil, nil
	}

	rows, err := s.Read()
	if err != nil {
		return 0, nil, err
	}
	if len(rows) == 0 {
		return 0, nil, fmt.Errorf("%w: %s", ErrEmptyLedger, s.path)
	}

	history := make([]uint32, len(rows))
	highest := uint32(0)
	for i, row := range rows {
		history[i] = row.Derivation
		if row.Derivation > highest {
			highest = row.Derivation
		}
	}
	return highest + 1, history, nil
}

// Append writes one record, creating the file (with header) on first
// use. An existing file's header is verified field-by-field first; any
// mismatch fails with ErrSchemaMismatch and leaves the file untouched.
// The row is flushed and synced to durable storage before returning.
func (s *Store) Append(rec Record) error {
	lock := flock.New(s.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring ledger lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLedgerLocked, s.path)
	}
	defer lock.Unlock()

	exists := true
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		exists = false
	}

	if exists {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("opening ledger: %w", err)
		}
		header, err := csv.NewReader(f).Read()
		f.Close()
		if err != nil {
			return fmt.Errorf("%w: unreadable header: %v", ErrSchemaMismatch, err)
		}
		if err := checkSchema(header); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !exists {
		if err := w.Write(Headers); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := w.Write(rec.fields()); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing ledger: %w", err)
	}
	return nil
}

// fields renders the record in strict column order, converting base
// units to decimal ETH strings and defaulting absent values to zero.
func (r Record) fields() []string {
	return []string{
		r.TxHash,
		strconv.FormatUint(uint64(r.Derivation), 10),
		r.Sender.Hex(),
		ethString(r.SenderEthBefore),
		ethString(r.SenderEthAfter),
		ethString(r.SenderErc20Before),
		ethString(r.SenderErc20After),
		r.Recipient.Hex(),
		ethString(r.RecipEthBefore),
		ethString(r.RecipEthAfter),
		ethString(r.RecipErc20Before),
		ethString(r.RecipErc20After),
		r.Function,
		ethString(r.MsgValue),
		ethString(r.CalldataValue),
		joinTokenIDs(r.OwnedTokenIDs),
		r.TxFee,
		r.GasPriceGwei,
		r.GasUsed,
		r.ReceiptJSON,
	}
}

func ethString(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return chain.WeiToEth(wei)
}

func joinTokenIDs(ids []*big.Int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}

func checkSchema(header []string) error {
	if len(header) != len(Headers) {
		return fmt.Errorf("%w: %d columns, want %d", ErrSchemaMismatch, len(header), len(Headers))
	}
	for i, name := range header {
		if name != Headers[i] {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i, name, Headers[i])
		}
	}
	return nil
}

func rowFromFields(fields []string) (Row, error) {
	if len(fields) != len(Headers) {
		return Row{}, fmt.Errorf("%w: record has %d fields, want %d", ErrSchemaMismatch, len(fields), len(Headers))
	}
	derivation, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Row{}, fmt.Errorf("parsing derivation %q: %w", fields[1], err)
	}
	return Row{
		TxHash:            fields[0],
		Derivation:        uint32(derivation),
		Sender:            fields[2],
		SenderEthBefore:   fields[3],
		SenderEthAfter:    fields[4],
		SenderErc20Before: fields[5],
		SenderErc20After:  fields[6],
		Recipient:         fields[7],
		RecipEthBefore:    fields[8],
		RecipEthAfter:     fields[9],
		RecipErc20Before:  fields[10],
		RecipErc20After:   fields[11],
		Function:          fields[12],
		MsgValue:          fields[13],
		CalldataValue:     fields[14],
		OwnedTokenIDs:     fields[15],
		TxFee:             fields[16],
		GasPrice:          fields[17],
		GasUsed:           fields[18],
		ReceiptJSON:       fields[19],
	}, nil
}
