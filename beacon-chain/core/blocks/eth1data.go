package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ProcessEth1DataVote records the proposer's eth1 vote and, once it has a
// majority within the current voting period, adopts it as the state's eth1
// data.
func ProcessEth1DataVote(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, vote *blocks.Eth1Data) error {
	st.AppendEth1DataVote(vote)
	votes := st.Eth1DataVotes()

	count := 0
	for _, v := range votes {
		if *v == *vote {
			count++
		}
	}
	votingPeriodSlots := uint64(cfg.EpochsPerEth1VotingPeriod) * uint64(cfg.SlotsPerEpoch)
	if uint64(count*2) > votingPeriodSlots {
		st.SetEth1Data(vote)
	}
	return nil
}
