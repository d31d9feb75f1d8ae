// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/ivantse/turtlecoin-v2/blockrecord"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/serializer"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// PutBlock - atomically write a block, its reward transaction and its
// user transactions
//
// the ordering hash of the block's transaction set must equal the
// hash of the provided transactions in their given order so that the
// global output indexes agree on every node
func (store *Store) PutBlock(block *blockrecord.Block, transactions []transactionrecord.Transaction) error {

	if len(transactions) != len(block.Transactions) {
		return fault.ErrBlockTransactionMismatch
	}

	providedHashes := make([]crypto.Hash, 0, len(transactions))
	for _, tx := range transactions {
		providedHashes = append(providedHashes, tx.Hash())
	}
	if crypto.HashHashes(providedHashes) != block.TransactionOrderHash() {
		return fault.ErrBlockTransactionOrder
	}

	store.writeMutex.Lock()
	defer store.writeMutex.Unlock()

	blockHash := block.Hash()

	for {
		store.env.Begin()

		err := store.putTransaction(block.RewardTx, blockHash)
		if nil == err {
			for _, tx := range transactions {
				err = store.putTransaction(tx, blockHash)
				if nil != err {
					break
				}
			}
		}

		if nil == err {
			store.blocks.Put(blockHash[:], block.Pack())
			store.blockIndexes.Put(uint64Key(block.Index), blockHash[:])
			store.blockTimestamps.Put(uint64Key(block.Timestamp), blockHash[:])
			err = store.env.Commit()
			if nil == err {
				return nil
			}
		} else {
			store.env.Abort()
		}

		if !fault.IsErrCapacity(err) {
			return err
		}

		// the store ran out of space mid write: grow and retry
		store.log.Warnf("capacity error: %s  expanding environment", err)
		if growErr := store.env.Grow(); nil != growErr {
			return growErr
		}
	}
}

// stage one transaction, its key images and its outputs
func (store *Store) putTransaction(tx transactionrecord.Transaction, blockHash crypto.Hash) error {
	txHash := tx.Hash()

	value := transactionrecord.Pack(tx)
	value = append(value, blockHash[:]...)
	store.transactions.Put(txHash[:], value)

	for _, keyImage := range txKeyImages(tx) {
		store.keyImages.Put(keyImage[:], []byte{})
	}

	outputs, unlockBlock := txOutputs(tx)
	for i := range outputs {
		store.putTransactionOutput(&outputs[i], unlockBlock)
	}
	return nil
}

// the unlock block is packed onto the front of the output value
func (store *Store) putTransactionOutput(output *transactionrecord.TransactionOutput, unlockBlock uint64) {
	writer := serializer.NewWriter()
	writer.Varint(unlockBlock)
	output.Serialize(writer)

	outputHash := output.Hash()
	store.transactionOutputs.Put(outputHash[:], writer.Bytes())
}

// key images only exist on the committed user transactions
func txKeyImages(tx transactionrecord.Transaction) []crypto.KeyImage {
	switch tx := tx.(type) {
	case *transactionrecord.CommittedNormalTransaction:
		return tx.KeyImages
	case *transactionrecord.CommittedStakeTransaction:
		return tx.KeyImages
	case *transactionrecord.CommittedRecallStakeTransaction:
		return tx.KeyImages
	default:
		return nil
	}
}

// spendable outputs and their unlock height per variant
func txOutputs(tx transactionrecord.Transaction) ([]transactionrecord.TransactionOutput, uint64) {
	switch tx := tx.(type) {
	case *transactionrecord.GenesisTransaction:
		return tx.Outputs, tx.UnlockBlock
	case *transactionrecord.CommittedNormalTransaction:
		return tx.Outputs, tx.UnlockBlock
	case *transactionrecord.CommittedStakeTransaction:
		return tx.Outputs, tx.UnlockBlock
	case *transactionrecord.CommittedRecallStakeTransaction:
		return tx.Outputs, tx.UnlockBlock
	case *transactionrecord.StakeRefundTransaction:
		return tx.Outputs, tx.UnlockBlock
	default:
		return nil, 0
	}
}

// BlockExists - check for a block by hash
func (store *Store) BlockExists(blockHash crypto.Hash) bool {
	return store.blocks.Has(blockHash[:])
}

// BlockExistsAtIndex - check for a block by index
func (store *Store) BlockExistsAtIndex(index uint64) bool {
	return store.blockIndexes.Has(uint64Key(index))
}

// BlockCount - number of stored blocks
func (store *Store) BlockCount() int {
	return store.blocks.Count()
}

// Height - the highest stored block index
//
// false when the chain is empty
func (store *Store) Height() (uint64, bool) {
	element, err := store.blockIndexes.NewCursor().Last()
	if nil != err || 8 != len(element.Key) {
		return 0, false
	}
	return uint64FromKey(element.Key), true
}

// GetBlockHash - block hash for an index
func (store *Store) GetBlockHash(index uint64) (crypto.Hash, error) {
	value, err := store.blockIndexes.Get(uint64Key(index))
	if nil != err {
		return crypto.Hash{}, fault.ErrBlockNotFound
	}
	blockHash, ok := crypto.HashFromBytes(value)
	if !ok {
		return crypto.Hash{}, fault.ErrCorruptedStorage
	}
	return blockHash, nil
}

// GetBlockIndex - block index for a hash
func (store *Store) GetBlockIndex(blockHash crypto.Hash) (uint64, error) {
	block, _, err := store.GetBlock(blockHash)
	if nil != err {
		return 0, err
	}
	return block.Index, nil
}

// GetBlock - block and its fully resolved user transactions
func (store *Store) GetBlock(blockHash crypto.Hash) (*blockrecord.Block, []transactionrecord.Transaction, error) {
	value, err := store.blocks.Get(blockHash[:])
	if nil != err {
		return nil, nil, fault.ErrBlockNotFound
	}

	block, err := blockrecord.Deserialize(serializer.NewReader(value))
	if nil != err {
		return nil, nil, err
	}

	transactions := make([]transactionrecord.Transaction, 0, len(block.Transactions))
	for _, txHash := range block.Transactions {
		tx, _, err := store.GetTransaction(txHash)
		if nil != err {
			return nil, nil, fault.ErrTransactionNotFound
		}
		transactions = append(transactions, tx)
	}
	return block, transactions, nil
}

// GetBlockByIndex - block and transactions by index
func (store *Store) GetBlockByIndex(index uint64) (*blockrecord.Block, []transactionrecord.Transaction, error) {
	blockHash, err := store.GetBlockHash(index)
	if nil != err {
		return nil, nil, err
	}
	return store.GetBlock(blockHash)
}

// GetBlockByTimestamp - the next block whose timestamp ≥ the given
// timestamp
func (store *Store) GetBlockByTimestamp(timestamp uint64) (uint64, crypto.Hash, error) {
	element, err := store.blockTimestamps.NewCursor().Seek(uint64Key(timestamp))
	if nil != err {
		return 0, crypto.Hash{}, fault.ErrBlockNotFound
	}
	blockHash, ok := crypto.HashFromBytes(element.Value)
	if !ok || 8 != len(element.Key) {
		return 0, crypto.Hash{}, fault.ErrCorruptedStorage
	}
	return uint64FromKey(element.Key), blockHash, nil
}

// GetTransaction - transaction and its containing block hash
//
// the trailing 32 bytes of the stored value are the block hash; the
// leading varint selects the variant deserializer
func (store *Store) GetTransaction(txHash crypto.Hash) (transactionrecord.Transaction, crypto.Hash, error) {
	value, err := store.transactions.Get(txHash[:])
	if nil != err {
		return nil, crypto.Hash{}, fault.ErrTransactionNotFound
	}
	if len(value) <= crypto.HashLength {
		return nil, crypto.Hash{}, fault.ErrCorruptedStorage
	}

	blockHash, _ := crypto.HashFromBytes(value[len(value)-crypto.HashLength:])

	tx, err := transactionrecord.Deserialize(serializer.NewReader(value[:len(value)-crypto.HashLength]))
	if nil != err {
		return nil, blockHash, err
	}
	return tx, blockHash, nil
}

// TransactionExists - check for a transaction by hash
func (store *Store) TransactionExists(txHash crypto.Hash) bool {
	return store.transactions.Has(txHash[:])
}

// GetTransactionOutput - output and its unlock block
func (store *Store) GetTransactionOutput(outputHash crypto.Hash) (transactionrecord.TransactionOutput, uint64, error) {
	value, err := store.transactionOutputs.Get(outputHash[:])
	if nil != err {
		return transactionrecord.TransactionOutput{}, 0, fault.ErrOutputNotFound
	}
	return unpackOutput(value)
}

// GetTransactionOutputs - batch resolve; any missing output fails the
// whole request
func (store *Store) GetTransactionOutputs(outputHashes []crypto.Hash) ([]transactionrecord.TransactionOutput, []uint64, error) {
	outputs := make([]transactionrecord.TransactionOutput, 0, len(outputHashes))
	unlocks := make([]uint64, 0, len(outputHashes))

	for _, outputHash := range outputHashes {
		output, unlockBlock, err := store.GetTransactionOutput(outputHash)
		if nil != err {
			return nil, nil, err
		}
		outputs = append(outputs, output)
		unlocks = append(unlocks, unlockBlock)
	}
	return outputs, unlocks, nil
}

// OutputExists - check for an output by hash
func (store *Store) OutputExists(outputHash crypto.Hash) bool {
	return store.transactionOutputs.Has(outputHash[:])
}

// OutputCount - number of stored outputs
func (store *Store) OutputCount() int {
	return store.transactionOutputs.Count()
}

// KeyImageExists - double spend point query
func (store *Store) KeyImageExists(keyImage crypto.KeyImage) bool {
	return store.keyImages.Has(keyImage[:])
}

// KeyImagesExist - true if any of the key images is already spent
func (store *Store) KeyImagesExist(keyImages []crypto.KeyImage) bool {
	for _, keyImage := range keyImages {
		if store.keyImages.Has(keyImage[:]) {
			return true
		}
	}
	return false
}

// KeyImageCount - number of stored key images
func (store *Store) KeyImageCount() int {
	return store.keyImages.Count()
}

func unpackOutput(value []byte) (transactionrecord.TransactionOutput, uint64, error) {
	reader := serializer.NewReader(value)
	unlockBlock := reader.Varint()
	output := transactionrecord.DeserializeTransactionOutput(reader)
	if nil != reader.Error() {
		return transactionrecord.TransactionOutput{}, 0, fault.ErrCorruptedStorage
	}
	return output, unlockBlock, nil
}

func uint64FromKey(key []byte) uint64 {
	value := uint64(0)
	for _, b := range key {
		value = value<<8 | uint64(b)
	}
	return value
}
