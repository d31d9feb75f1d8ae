// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package validate - transaction validation
//
// stateless apart from read only references to the chain store, the
// staking engine and the external crypto engine; Check enforces the
// construction and economic rules, Validate additionally consults the
// chain
package validate

import (
	"github.com/ivantse/turtlecoin-v2/blockchain"
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/staking"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// Validator - validation context
type Validator struct {
	store   *blockchain.Store
	staking *staking.Engine
	engine  crypto.Engine
}

// New - create a validator over the given collaborators
func New(store *blockchain.Store, stakingEngine *staking.Engine, engine crypto.Engine) *Validator {
	return &Validator{
		store:   store,
		staking: stakingEngine,
		engine:  engine,
	}
}

// Check - construction, proof of work and fee rules; no chain access
func (v *Validator) Check(tx transactionrecord.Transaction) error {
	switch tx := tx.(type) {
	case *transactionrecord.GenesisTransaction:
		return v.checkGenesis(tx)

	case *transactionrecord.StakerRewardTransaction:
		return v.checkStakerReward(tx)

	case *transactionrecord.CommittedNormalTransaction:
		err := v.checkUserSections(&tx.Prefix, &tx.UserBody, []uint64{1})
		if nil != err {
			return err
		}
		if len(tx.Extra) > transactionrecord.MaximumExtraSize {
			return fault.ErrTxExtraTooLarge
		}
		return v.checkPowAndFee(tx.Fee, tx.Size(), tx.PowHash())

	case *transactionrecord.CommittedStakeTransaction:
		err := v.checkUserSections(&tx.Prefix, &tx.UserBody, []uint64{1, 2})
		if nil != err {
			return err
		}
		err = v.checkStakeData(&tx.StakeData)
		if nil != err {
			return err
		}
		return v.checkPowAndFee(tx.Fee, tx.Size(), tx.PowHash())

	case *transactionrecord.CommittedRecallStakeTransaction:
		err := v.checkUserSections(&tx.Prefix, &tx.UserBody, []uint64{1, 2})
		if nil != err {
			return err
		}
		err = v.checkRecallStakeData(&tx.RecallStakeData)
		if nil != err {
			return err
		}
		return v.checkPowAndFee(tx.Fee, tx.Size(), tx.PowHash())

	case *transactionrecord.StakeRefundTransaction:
		return v.checkStakeRefund(tx)

	default:
		return fault.ErrUnknownTransactionType
	}
}

// CheckUncommitted - construction, proof material, proof of work and
// fee rules for the plaintext form
func (v *Validator) CheckUncommitted(tx transactionrecord.UncommittedTransaction) error {
	switch tx := tx.(type) {
	case *transactionrecord.UncommittedNormalTransaction:
		err := v.checkUserSections(&tx.Prefix, &tx.UserBody, []uint64{1})
		if nil != err {
			return err
		}
		if len(tx.Extra) > transactionrecord.MaximumExtraSize {
			return fault.ErrTxExtraTooLarge
		}
		err = v.checkUncommittedSuffix(&tx.UserBody, &tx.UncommittedSuffix)
		if nil != err {
			return err
		}
		return v.checkPowAndFee(tx.Fee, tx.CommittedSize(), tx.PowHash())

	case *transactionrecord.UncommittedStakeTransaction:
		err := v.checkUserSections(&tx.Prefix, &tx.UserBody, []uint64{1, 2})
		if nil != err {
			return err
		}
		err = v.checkStakeData(&tx.StakeData)
		if nil != err {
			return err
		}
		err = v.checkUncommittedSuffix(&tx.UserBody, &tx.UncommittedSuffix)
		if nil != err {
			return err
		}
		return v.checkPowAndFee(tx.Fee, tx.CommittedSize(), tx.PowHash())

	case *transactionrecord.UncommittedRecallStakeTransaction:
		err := v.checkUserSections(&tx.Prefix, &tx.UserBody, []uint64{1, 2})
		if nil != err {
			return err
		}
		err = v.checkRecallStakeData(&tx.RecallStakeData)
		if nil != err {
			return err
		}
		err = v.checkUncommittedSuffix(&tx.UserBody, &tx.UncommittedSuffix)
		if nil != err {
			return err
		}
		return v.checkPowAndFee(tx.Fee, tx.CommittedSize(), tx.PowHash())

	default:
		return fault.ErrUnknownTransactionType
	}
}

func versionAllowed(version uint64, allowed []uint64) bool {
	for _, a := range allowed {
		if version == a {
			return true
		}
	}
	return false
}

// the rules shared by every user transaction
func (v *Validator) checkUserSections(prefix *transactionrecord.Prefix, body *transactionrecord.UserBody, versions []uint64) error {
	if !versionAllowed(prefix.Version, versions) {
		return fault.ErrTxInvalidVersion
	}
	if prefix.PublicKey.IsEmpty() || prefix.PublicKey.IsIdentity() {
		return fault.ErrTxPublicKey
	}

	if 0 == len(body.KeyImages) || len(body.KeyImages) > transactionrecord.MaximumInputs {
		return fault.ErrTxInvalidInputCount
	}
	seen := make(map[crypto.KeyImage]struct{}, len(body.KeyImages))
	for _, keyImage := range body.KeyImages {
		if !v.engine.CheckSubgroup(crypto.Point(keyImage)) {
			return fault.ErrTxInvalidKeyImage
		}
		if _, duplicate := seen[keyImage]; duplicate {
			return fault.ErrTxDuplicateKeyImage
		}
		seen[keyImage] = struct{}{}
	}

	if len(body.Outputs) < transactionrecord.MinimumOutputs || len(body.Outputs) > transactionrecord.MaximumOutputs {
		return fault.ErrTxInvalidOutputCount
	}
	for i := range body.Outputs {
		if err := body.Outputs[i].CheckConstruction(); nil != err {
			return err
		}
	}
	return nil
}

func (v *Validator) checkStakeData(data *transactionrecord.StakeData) error {
	if 0 == data.StakeAmount {
		return fault.ErrTxStakeNoAmount
	}
	if data.CandidatePublicKey.IsEmpty() {
		return fault.ErrStakingCandidateNotFound
	}
	if data.StakerPublicViewKey.IsEmpty() {
		return fault.ErrTxPublicViewKeyNotFound
	}
	if data.StakerPublicSpendKey.IsEmpty() {
		return fault.ErrTxPublicSpendKeyNotFound
	}
	return nil
}

func (v *Validator) checkRecallStakeData(data *transactionrecord.RecallStakeData) error {
	if 0 == data.StakeAmount {
		return fault.ErrTxStakeNoAmount
	}
	if data.CandidatePublicKey.IsEmpty() {
		return fault.ErrStakingCandidateNotFound
	}
	if data.StakerID.IsEmpty() {
		return fault.ErrTxStakerID
	}
	if data.ViewSignature.IsEmpty() {
		return fault.ErrTxRecallViewSignature
	}
	if data.SpendSignature.IsEmpty() {
		return fault.ErrTxRecallSpendSignature
	}
	return nil
}

// balance, range proof structure and signature counts on the
// plaintext form
func (v *Validator) checkUncommittedSuffix(body *transactionrecord.UserBody, suffix *transactionrecord.UncommittedSuffix) error {
	if len(suffix.PseudoCommitments) != len(body.KeyImages) {
		return fault.ErrTxInvalidPseudoCommitments
	}

	outputCommitments := make([]crypto.Commitment, 0, len(body.Outputs))
	for i := range body.Outputs {
		outputCommitments = append(outputCommitments, body.Outputs[i].Commitment)
	}
	if !v.engine.CheckCommitmentsParity(suffix.PseudoCommitments, outputCommitments, body.Fee) {
		return fault.ErrTxCommitmentsDoNotBalance
	}

	if !suffix.RangeProof.CheckConstruction() {
		return fault.ErrTxInvalidRangeProof
	}

	if len(suffix.Signatures) != len(body.KeyImages) {
		return fault.ErrTxSignatureSizeMismatch
	}
	for i := range suffix.Signatures {
		if !suffix.Signatures[i].CheckConstruction(transactionrecord.RingSize) {
			return fault.ErrTxInvalidSignature
		}
	}
	return nil
}

func (v *Validator) checkPowAndFee(fee uint64, size int, powHash crypto.Hash) error {
	zeros := powHash.LeadingZeros()
	if zeros < transactionrecord.MinimumPowZeros {
		return fault.ErrTxMinimumPoW
	}
	if fee < transactionrecord.RequiredFee(size, zeros) {
		return fault.ErrTxLowFee
	}
	return nil
}

func (v *Validator) checkGenesis(tx *transactionrecord.GenesisTransaction) error {
	if 1 != tx.Version {
		return fault.ErrTxInvalidVersion
	}
	if tx.PublicKey.IsEmpty() || tx.PublicKey.IsIdentity() {
		return fault.ErrTxPublicKey
	}
	if tx.SecretKey.IsEmpty() {
		return fault.ErrTxSecretKey
	}

	publicKey, ok := v.engine.SecretKeyToPublicKey(tx.SecretKey)
	if !ok || publicKey != tx.PublicKey {
		return fault.ErrTxKeyPairMismatch
	}

	if len(tx.Outputs) != transactionrecord.RingSize*2 {
		return fault.ErrTxInvalidOutputCount
	}
	for i := range tx.Outputs {
		if err := tx.Outputs[i].CheckConstruction(); nil != err {
			return err
		}
	}
	return nil
}

func (v *Validator) checkStakerReward(tx *transactionrecord.StakerRewardTransaction) error {
	if 1 != tx.Version {
		return fault.ErrTxInvalidVersion
	}
	for i := range tx.StakerOutputs {
		if err := tx.StakerOutputs[i].CheckConstruction(); nil != err {
			return err
		}
	}
	for i := range tx.StakerPenalties {
		if err := tx.StakerPenalties[i].CheckConstruction(); nil != err {
			return err
		}
	}
	return nil
}

func (v *Validator) checkStakeRefund(tx *transactionrecord.StakeRefundTransaction) error {
	if 1 != tx.Version {
		return fault.ErrTxInvalidVersion
	}
	if tx.PublicKey.IsEmpty() || tx.PublicKey.IsIdentity() {
		return fault.ErrTxPublicKey
	}
	if tx.SecretKey.IsEmpty() {
		return fault.ErrTxSecretKey
	}

	publicKey, ok := v.engine.SecretKeyToPublicKey(tx.SecretKey)
	if !ok || publicKey != tx.PublicKey {
		return fault.ErrTxKeyPairMismatch
	}

	if tx.RecallStakeTxHash.IsEmpty() {
		return fault.ErrTxRecallStakeTxHash
	}
	if 1 != len(tx.Outputs) {
		return fault.ErrTxInvalidOutputCount
	}
	return tx.Outputs[0].CheckConstruction()
}
