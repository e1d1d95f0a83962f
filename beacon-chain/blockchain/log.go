package blockchain

import (
	"encoding/hex"

	"github.com/sirupsen/logrus"

	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/runtime/version"
)

var log = logrus.WithField("prefix", "blockchain")

func forkName(cfg *params.BeaconChainConfig, epoch uint64) string {
	v := version.Phase0
	if epoch >= uint64(cfg.AltairForkEpoch) {
		v = version.Altair
	}
	return version.String(v)
}

func logStateTransitionData(cfg *params.BeaconChainConfig, b *blocks.BeaconBlock, root [32]byte) {
	log.WithFields(logrus.Fields{
		"slot":         b.Slot,
		"fork":         forkName(cfg, uint64(b.Slot)/uint64(cfg.SlotsPerEpoch)),
		"root":         hex.EncodeToString(root[:]),
		"attestations": len(b.Body.Attestations),
		"deposits":     len(b.Body.Deposits),
	}).Info("Finished state transition and updated fork choice store for block")
}
