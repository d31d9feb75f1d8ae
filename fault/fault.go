// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2021 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type CapacityError GenericError

// general errors
var (
	ErrJSONParseFail = ProcessError("parse to json failed")
	ErrAddressDecode = InvalidError("address decode failed")
	ErrAddressPrefix = InvalidError("address prefix mismatch")
	ErrBase58Decode  = InvalidError("base58 decode failed")
)

// networking errors
var (
	ErrBind               = ProcessError("socket bind failed")
	ErrConnect            = ProcessError("socket connect failed")
	ErrSeedConnect        = ProcessError("could not connect to any seed nodes")
	ErrDuplicateConnect   = ExistsError("already connected to peer")
	ErrConnectTimeout     = ProcessError("connection attempt timed out")
	ErrNotConnected       = ProcessError("not connected")
	ErrUPnPFailure        = ProcessError("upnp port mapping failed")
	ErrInvalidIPAddress   = InvalidError("invalid ip address")
	ErrInvalidPortNumber  = InvalidError("invalid port number")
	ErrInvalidPeerVersion = InvalidError("peer version below minimum")
	ErrInvalidPacket      = InvalidError("cannot parse network packet")
	ErrTooManyPeers       = InvalidError("too many peers in packet")
	ErrPeerAddFailure     = ProcessError("could not add peer to database")
)

// storage errors
var (
	ErrDatabaseEmpty           = NotFoundError("database is empty")
	ErrBlockNotFound           = NotFoundError("block not found")
	ErrTransactionNotFound     = NotFoundError("transaction not found")
	ErrOutputNotFound          = NotFoundError("transaction output not found")
	ErrKeyNotFound             = NotFoundError("key not found")
	ErrAlreadyInitialised      = ExistsError("already initialised")
	ErrNotInitialised          = ProcessError("not initialised")
	ErrTransactionAlreadyInUse = ProcessError("storage transaction already in use")
	ErrCorruptedStorage        = ProcessError("storage record is corrupted")
	ErrUnknownTransactionType  = ProcessError("unknown transaction type")
	ErrStorageMapFull          = CapacityError("storage map is full")
	ErrStorageTransactionFull  = CapacityError("storage transaction is full")
	ErrStorageMapResized       = CapacityError("storage map was resized")
	ErrStoragePageFull         = CapacityError("storage page is full")
	ErrStorageCannotGrow       = ProcessError("storage environment cannot grow")
)

// block errors
var (
	ErrBlockTransactionOrder    = InvalidError("block transaction order mismatch")
	ErrBlockTransactionMismatch = InvalidError("block transaction count mismatch")
	ErrInvalidRewardTransaction = InvalidError("invalid block reward transaction type")
	ErrBlockNotSigned           = ProcessError("block has no producer signature")
	ErrBlockProducerIsValidator = InvalidError("block producer also signed as validator")
	ErrBlockProducerSignature   = InvalidError("block producer signature is invalid")
	ErrBlockValidatorSignature  = InvalidError("block validator signature is invalid")
	ErrBlockValidatorUnelected  = InvalidError("block validator was not elected")
	ErrBlockValidatorQuorum     = InvalidError("block validator signatures below threshold")
	ErrBlockInvalidIndex        = InvalidError("block index does not match its reward type")
)

// transaction errors
var (
	ErrTxInvalidVersion           = InvalidError("transaction version is invalid")
	ErrTxKeyImageAlreadyExists    = ExistsError("transaction key image already exists")
	ErrTxDuplicateKeyImage        = InvalidError("transaction contains duplicate key images")
	ErrTxInvalidKeyImage          = InvalidError("transaction key image is invalid")
	ErrTxMinimumPoW               = InvalidError("transaction proof of work below minimum")
	ErrTxLowFee                   = InvalidError("transaction fee below required amount")
	ErrTxMissingFee               = InvalidError("transaction fee is missing")
	ErrTxExtraTooLarge            = InvalidError("transaction extra exceeds maximum size")
	ErrTxKeyPairMismatch          = InvalidError("transaction keypair mismatch")
	ErrTxPublicKey                = InvalidError("transaction public key is invalid")
	ErrTxSecretKey                = InvalidError("transaction secret key is invalid")
	ErrTxStakeNoAmount            = InvalidError("stake amount is missing")
	ErrTxStakerID                 = InvalidError("staker id is missing")
	ErrTxRecallViewSignature      = InvalidError("recall view signature is missing")
	ErrTxRecallSpendSignature     = InvalidError("recall spend signature is missing")
	ErrTxRecallStakeTxHash        = InvalidError("recall stake transaction hash is missing")
	ErrTxOutputPublicEphemeral    = InvalidError("transaction output public ephemeral is invalid")
	ErrTxOutputAmount             = InvalidError("transaction output amount is invalid")
	ErrTxOutputCommitment         = InvalidError("transaction output commitment is invalid")
	ErrTxOutputLocked             = InvalidError("transaction output is still locked")
	ErrTxStakerRewardAmount       = InvalidError("staker reward amount is invalid")
	ErrTxStakerRewardID           = InvalidError("staker reward id is invalid")
	ErrTxInvalidRangeProof        = InvalidError("transaction range proof is invalid")
	ErrTxSignatureSizeMismatch    = InvalidError("transaction signature count mismatch")
	ErrTxInvalidSignature         = InvalidError("transaction signature is invalid")
	ErrTxInvalidOutputCount       = InvalidError("transaction output count is invalid")
	ErrTxInvalidInputCount        = InvalidError("transaction input count is invalid")
	ErrTxPublicViewKeyNotFound    = InvalidError("staker public view key is missing")
	ErrTxPublicSpendKeyNotFound   = InvalidError("staker public spend key is missing")
	ErrTxInvalidPseudoCommitments = InvalidError("transaction pseudo commitment count mismatch")
	ErrTxCommitmentsDoNotBalance  = InvalidError("transaction commitments do not balance")
	ErrTxInvalidRingSignature     = InvalidError("transaction ring signature is invalid")
	ErrTxGenesisAlreadyExists     = ExistsError("genesis transaction already exists")
	ErrTxStakingPublicKeyReuse    = InvalidError("staking public keys already in use")
)

// staking errors
var (
	ErrStakingCandidateAlreadyExists = ExistsError("staking candidate already exists")
	ErrStakingCandidateNotFound      = NotFoundError("staking candidate not found")
	ErrStakingCandidateAmount        = InvalidError("staking candidacy amount is invalid")
	ErrStakingStakerNotFound         = NotFoundError("staker not found")
	ErrStakingStakeAmount            = InvalidError("stake amount below minimum")
)

// AES errors
var (
	ErrWrongPassword  = InvalidError("wrong password")
	ErrDecryptionFail = ProcessError("decryption failed")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e CapacityError) Error() string { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }

// IsErrCapacity - true for errors that are cleared by growing the
// storage environment and retrying the write
func IsErrCapacity(e error) bool { _, ok := e.(CapacityError); return ok }
