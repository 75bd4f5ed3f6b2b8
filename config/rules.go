package config

// Rules configures optional acceptance checks beyond the baseline
// linkage rule. Both default to off: the baseline ledger indexes
// whatever an accepted block says, leaving spend authorization and
// balance enforcement to external collaborators.
type Rules struct {
	// RejectDoubleSpends refuses blocks containing an input whose
	// referenced output is absent from the UTXO set (either never
	// created, already spent, or consumed earlier in the same block).
	RejectDoubleSpends bool `json:"reject_double_spends"`

	// RequireBalancedTxs refuses blocks containing a spending
	// transaction that creates more value than it consumes.
	// Transactions with no inputs (issuance) are exempt.
	RequireBalancedTxs bool `json:"require_balanced_txs"`
}
