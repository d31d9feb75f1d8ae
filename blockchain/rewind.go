// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// DelBlock - remove the block at the given index with all of its
// transactions, outputs and key images
//
// one storage transaction per block; capacity errors grow the
// environment and retry
func (store *Store) DelBlock(index uint64) error {
	block, transactions, err := store.GetBlockByIndex(index)
	if nil != err {
		return err
	}

	store.writeMutex.Lock()
	defer store.writeMutex.Unlock()

	blockHash := block.Hash()

	for {
		store.env.Begin()

		store.delTransaction(block.RewardTx)
		for _, tx := range transactions {
			store.delTransaction(tx)
		}

		store.blockTimestamps.Delete(uint64Key(block.Timestamp))
		store.blockIndexes.Delete(uint64Key(block.Index))
		store.blocks.Delete(blockHash[:])

		err = store.env.Commit()
		if nil == err {
			return nil
		}
		store.env.Abort()

		if !fault.IsErrCapacity(err) {
			return err
		}

		store.log.Warnf("capacity error: %s  expanding environment", err)
		if growErr := store.env.Grow(); nil != growErr {
			return growErr
		}
	}
}

// outputs first, then key images, then the record itself
func (store *Store) delTransaction(tx transactionrecord.Transaction) {
	outputs, _ := txOutputs(tx)
	for i := range outputs {
		outputHash := outputs[i].Hash()
		store.transactionOutputs.Delete(outputHash[:])
	}

	for _, keyImage := range txKeyImages(tx) {
		store.keyImages.Delete(keyImage[:])
	}

	txHash := tx.Hash()
	store.transactions.Delete(txHash[:])
}

// Rewind - delete all blocks above the target index, highest first
//
// after a rewind the store is exactly as it was when the target block
// was the chain head
func (store *Store) Rewind(target uint64) error {
	if !store.BlockExistsAtIndex(target) {
		return fault.ErrBlockNotFound
	}

	height, ok := store.Height()
	if !ok {
		return fault.ErrDatabaseEmpty
	}

	for index := height; index > target; index -= 1 {
		err := store.DelBlock(index)
		if nil != err {
			return err
		}
	}
	return nil
}
