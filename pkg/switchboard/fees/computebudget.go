package fees

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// https://github.com/solana-labs/solana/blob/master/program-runtime/src/compute_budget.rs
var ComputeBudgetProgram = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

const (
	instructionRequestHeapFrame uint8 = iota + 1
	instructionSetComputeUnitLimit
	instructionSetComputeUnitPrice
)

// ComputeUnitPrice is the price in micro-lamports paid per compute unit.
type ComputeUnitPrice uint64

// ComputeUnitLimit caps the compute units a transaction may consume.
type ComputeUnitLimit uint32

func (val ComputeUnitPrice) Instruction() solana.GenericInstruction {
	// build with no accounts
	data := []byte{instructionSetComputeUnitPrice}
	data = binary.LittleEndian.AppendUint64(data, uint64(val))
	return *solana.NewInstruction(ComputeBudgetProgram, solana.AccountMetaSlice{}, data)
}

func (val ComputeUnitLimit) Instruction() solana.GenericInstruction {
	data := []byte{instructionSetComputeUnitLimit}
	data = binary.LittleEndian.AppendUint32(data, uint32(val))
	return *solana.NewInstruction(ComputeBudgetProgram, solana.AccountMetaSlice{}, data)
}

// ParsePrice decodes a SetComputeUnitPrice instruction payload.
func ParsePrice(data []byte) (ComputeUnitPrice, error) {
	if len(data) != 9 {
		return 0, errors.New("invalid length")
	}
	if data[0] != instructionSetComputeUnitPrice {
		return 0, errors.New("not SetComputeUnitPrice identifier")
	}
	return ComputeUnitPrice(binary.LittleEndian.Uint64(data[1:])), nil
}

// SetComputeUnitPrice prepends or replaces the unit price instruction in the
// transaction. The tx must not be signed yet.
func SetComputeUnitPrice(tx *solana.Transaction, price ComputeUnitPrice) error {
	return modifyTx(tx, instructionSetComputeUnitPrice, price.Instruction())
}

// SetComputeUnitLimit prepends or replaces the unit limit instruction in the
// transaction. The tx must not be signed yet.
func SetComputeUnitLimit(tx *solana.Transaction, limit ComputeUnitLimit) error {
	return modifyTx(tx, instructionSetComputeUnitLimit, limit.Instruction())
}

func modifyTx(tx *solana.Transaction, identifier uint8, instruction solana.GenericInstruction) error {
	if tx == nil {
		return errors.New("nil pointer provided to modifyTx")
	}
	if len(tx.Signatures) != 0 {
		return errors.New("transaction already signed")
	}

	// find ComputeBudget program index, if it exists
	programIdx := -1
	for i, key := range tx.Message.AccountKeys {
		if key.Equals(ComputeBudgetProgram) {
			programIdx = i
			break
		}
	}
	if programIdx == -1 {
		tx.Message.AccountKeys = append(tx.Message.AccountKeys, ComputeBudgetProgram)
		programIdx = len(tx.Message.AccountKeys) - 1
	}

	// replace an existing instruction of the same type in place
	for i := range tx.Message.Instructions {
		ix := tx.Message.Instructions[i]
		if int(ix.ProgramIDIndex) == programIdx && len(ix.Data) > 0 && ix.Data[0] == identifier {
			tx.Message.Instructions[i].Data = solana.Base58(instruction.DataBytes)
			return nil
		}
	}

	if programIdx > 255 {
		return fmt.Errorf("program index too large: %d", programIdx)
	}

	// prepend so the budget applies before any program instruction runs
	tx.Message.Instructions = append([]solana.CompiledInstruction{{
		ProgramIDIndex: uint16(programIdx),
		Data:           solana.Base58(instruction.DataBytes),
	}}, tx.Message.Instructions...)
	return nil
}
