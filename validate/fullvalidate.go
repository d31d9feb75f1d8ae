// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package validate

import (
	"github.com/ivantse/turtlecoin-v2/crypto"
	"github.com/ivantse/turtlecoin-v2/fault"
	"github.com/ivantse/turtlecoin-v2/genesis"
	"github.com/ivantse/turtlecoin-v2/staking"
	"github.com/ivantse/turtlecoin-v2/transactionrecord"
)

// ValidateUncommitted - full validation of a plaintext user
// transaction against the chain
func (v *Validator) ValidateUncommitted(tx transactionrecord.UncommittedTransaction) error {
	err := v.CheckUncommitted(tx)
	if nil != err {
		return err
	}

	switch tx := tx.(type) {
	case *transactionrecord.UncommittedNormalTransaction:
		return v.validateProofs(tx.Digest(), &tx.UserBody, &tx.UncommittedSuffix)

	case *transactionrecord.UncommittedStakeTransaction:
		err = v.validateProofs(tx.Digest(), &tx.UserBody, &tx.UncommittedSuffix)
		if nil != err {
			return err
		}
		return v.validateStakeData(&tx.StakeData, tx.Version)

	case *transactionrecord.UncommittedRecallStakeTransaction:
		err = v.validateProofs(tx.Digest(), &tx.UserBody, &tx.UncommittedSuffix)
		if nil != err {
			return err
		}
		return v.validateRecallStakeData(&tx.RecallStakeData)

	default:
		return fault.ErrUnknownTransactionType
	}
}

// Validate - full validation of a committed transaction against the
// chain
func (v *Validator) Validate(tx transactionrecord.Transaction) error {
	err := v.Check(tx)
	if nil != err {
		return err
	}

	switch tx := tx.(type) {
	case *transactionrecord.GenesisTransaction:
		return v.validateGenesis(tx)

	case *transactionrecord.StakerRewardTransaction:
		return nil

	case *transactionrecord.CommittedNormalTransaction:
		return v.checkSpent(tx.KeyImages)

	case *transactionrecord.CommittedStakeTransaction:
		err = v.checkSpent(tx.KeyImages)
		if nil != err {
			return err
		}
		return v.validateStakeData(&tx.StakeData, tx.Version)

	case *transactionrecord.CommittedRecallStakeTransaction:
		err = v.checkSpent(tx.KeyImages)
		if nil != err {
			return err
		}
		return v.validateRecallStakeData(&tx.RecallStakeData)

	case *transactionrecord.StakeRefundTransaction:
		return v.validateStakeRefund(tx)

	default:
		return fault.ErrUnknownTransactionType
	}
}

func (v *Validator) checkSpent(keyImages []crypto.KeyImage) error {
	if v.store.KeyImagesExist(keyImages) {
		return fault.ErrTxKeyImageAlreadyExists
	}
	return nil
}

// range proof, double spend, ring resolution and ring signatures
func (v *Validator) validateProofs(digest crypto.Hash, body *transactionrecord.UserBody, suffix *transactionrecord.UncommittedSuffix) error {

	outputCommitments := make([]crypto.Commitment, 0, len(body.Outputs))
	for i := range body.Outputs {
		outputCommitments = append(outputCommitments, body.Outputs[i].Commitment)
	}
	if !v.engine.VerifyRangeProof(&suffix.RangeProof, outputCommitments) {
		return fault.ErrTxInvalidRangeProof
	}

	if err := v.checkSpent(body.KeyImages); nil != err {
		return err
	}

	// resolve the ring members; an unresolvable member is fatal
	ringOutputs, _, err := v.store.GetTransactionOutputs(suffix.RingParticipants)
	if nil != err {
		return err
	}

	publicKeys := make([]crypto.Point, 0, len(ringOutputs))
	ringCommitments := make([]crypto.Commitment, 0, len(ringOutputs))
	for i := range ringOutputs {
		publicKeys = append(publicKeys, ringOutputs[i].PublicEphemeral)
		ringCommitments = append(ringCommitments, ringOutputs[i].Commitment)
	}

	for i := range suffix.Signatures {
		if !v.engine.CheckRingSignature(digest, body.KeyImages[i], publicKeys, &suffix.Signatures[i], ringCommitments) {
			return fault.ErrTxInvalidRingSignature
		}
	}
	return nil
}

// the genesis transaction must pay the configured premine to the
// configured wallet and may exist only once
func (v *Validator) validateGenesis(tx *transactionrecord.GenesisTransaction) error {
	if genesis.TxPrivateKey != tx.SecretKey {
		return fault.ErrTxSecretKey
	}

	publicSpend, publicView, err := genesis.DecodeAddress(genesis.DestinationWallet)
	if nil != err {
		return err
	}

	derivation, ok := v.engine.GenerateKeyDerivation(publicView, tx.SecretKey)
	if !ok {
		return fault.ErrTxKeyPairMismatch
	}

	for i := range tx.Outputs {
		output := &tx.Outputs[i]

		scalar := v.engine.DerivationToScalar(derivation, uint64(i))
		blinding := v.engine.GenerateCommitmentBlindingFactor(scalar)
		mask := v.engine.GenerateAmountMask(scalar)

		ephemeral, ok := v.engine.DerivePublicKey(scalar, publicSpend)
		if !ok || ephemeral != output.PublicEphemeral {
			return fault.ErrTxOutputPublicEphemeral
		}

		if v.engine.ToggleMaskedAmount(mask, output.Amount) != genesis.OutputAmount {
			return fault.ErrTxOutputAmount
		}

		if v.engine.GeneratePedersenCommitment(blinding, genesis.OutputAmount) != output.Commitment {
			return fault.ErrTxOutputCommitment
		}
	}

	if v.store.BlockExistsAtIndex(0) {
		return fault.ErrTxGenesisAlreadyExists
	}
	return nil
}

func (v *Validator) validateStakeData(data *transactionrecord.StakeData, version uint64) error {
	switch version {
	case 1:
		// candidacy
		if data.StakeAmount != staking.RequiredCandidacyAmount {
			return fault.ErrStakingCandidateAmount
		}
		if v.staking.CandidateExists(data.CandidatePublicKey) {
			return fault.ErrStakingCandidateAlreadyExists
		}
		return nil

	case 2:
		// vote
		if !v.staking.CandidateExists(data.CandidatePublicKey) {
			return fault.ErrStakingCandidateNotFound
		}
		if data.StakeAmount < staking.MinimumStakeAmount {
			return fault.ErrStakingStakeAmount
		}
		return nil

	default:
		return fault.ErrTxInvalidVersion
	}
}

func (v *Validator) validateRecallStakeData(data *transactionrecord.RecallStakeData) error {
	if 0 == len(v.staking.GetStakerStakes(data.StakerID)) {
		return fault.ErrStakingStakerNotFound
	}
	return nil
}

func (v *Validator) validateStakeRefund(tx *transactionrecord.StakeRefundTransaction) error {
	if !v.store.TransactionExists(tx.RecallStakeTxHash) {
		return fault.ErrTxRecallStakeTxHash
	}
	return nil
}
