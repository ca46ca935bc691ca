// Package modkit provides module wiring and core deps
package modkit

import (
	"chirp/internal/modkit/repokit"
	"chirp/internal/platform/config"
	"chirp/internal/platform/logger"
	"chirp/internal/platform/store/rd"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	RD  *rd.RD
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
