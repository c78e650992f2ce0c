package types

import "github.com/shopspring/decimal"

// BalanceMinorUnitFactor converts claimed minor-unit amounts into the
// major-unit balances stored on accounts. The same factor drives legacy
// balance migration, so the two paths can never disagree on scale.
const BalanceMinorUnitFactor = 1000

// LegacyBalanceThreshold is the discriminator for balances still stored in
// minor units. Any balance above it is treated as a legacy record and
// divided down on first touch. A legitimate major-unit balance above the
// threshold would be misclassified; no upper bound on balances is enforced
// elsewhere, so the heuristic stays a known risk.
const LegacyBalanceThreshold = 1000

// MinorUnitFactorDecimal is BalanceMinorUnitFactor as a decimal for division
var MinorUnitFactorDecimal = decimal.NewFromInt(BalanceMinorUnitFactor)

// LegacyBalanceThresholdDecimal is LegacyBalanceThreshold as a decimal
var LegacyBalanceThresholdDecimal = decimal.NewFromInt(LegacyBalanceThreshold)

// AmountTolerance is the maximum allowed difference between a claimed amount
// and the provider-captured amount, absorbing decimal rounding on either side
var AmountTolerance = decimal.NewFromFloat(0.01)
