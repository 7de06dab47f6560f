package generator

import (
	"crypto/rand"
	"math/big"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Tuning defaults. These are empirical values without a derivation; adjust
// through Options rather than treating them as invariants.
const (
	DefaultMaxAttempts       = 50
	DefaultMaxBonusWords     = 12
	DefaultMaxPlacedBonus    = 3
	DefaultBonusMinLength    = 4
	DefaultBonusMaxLength    = 8
	DefaultBonusDraws        = 20
	DefaultBonusGridDivisor  = 8  // one injected bonus word per 8 rows of grid
	DefaultBonusAreaDivisor  = 10 // at most one scanned bonus word per 10 cells
	defaultRandomSeedCeiling = 1_000_000
)

// Options configures puzzle generation.
type Options struct {
	MaxAttempts    int // attempts when no seed is forced
	MaxBonusWords  int // cap on incidental words registered by the scanner
	MaxPlacedBonus int // cap on deliberately injected bonus words
	BonusMinLength int // length window for injected bonus words
	BonusMaxLength int
	BonusDraws     int  // draws allowed to find an injected word that is not a target
	DisableBonus   bool // skip bonus injection and scanning entirely

	// SeedSource supplies the base seed when the caller does not force one.
	// nil means a crypto-random value in [0, 1e6).
	SeedSource func() int64

	Logger *zerolog.Logger // nil means the global zerolog logger
}

// DefaultOptions returns the standard generator options.
func DefaultOptions() *Options {
	return &Options{
		MaxAttempts:    DefaultMaxAttempts,
		MaxBonusWords:  DefaultMaxBonusWords,
		MaxPlacedBonus: DefaultMaxPlacedBonus,
		BonusMinLength: DefaultBonusMinLength,
		BonusMaxLength: DefaultBonusMaxLength,
		BonusDraws:     DefaultBonusDraws,
	}
}

func (o *Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return &log.Logger
}

func (o *Options) baseSeed() int64 {
	if o.SeedSource != nil {
		return o.SeedSource()
	}
	return randomSeed()
}

// randomSeed returns a crypto-random seed in [0, 1e6).
func randomSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(defaultRandomSeedCeiling))
	if err != nil {
		return 0
	}
	return n.Int64()
}
