// Bond core CLI driver.
//
// Usage:
//
//	bondd genesis                       Build and print the fixed genesis block
//	bondd mine --difficulty N           Mine a block header at a given difficulty
//	bondd validate                      Build genesis and run it through the chain pipeline
//	bondd stats [--network testnet]     Print static protocol parameters
//
// This is an ambient wrapper around the core packages, not itself part of
// the core's test matrix: it demonstrates genesis construction, mining, and
// chain-state validation end to end.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/aevum-bond/bond-core/bonderr"
	"github.com/aevum-bond/bond-core/config"
	"github.com/aevum-bond/bond-core/internal/chain"
	"github.com/aevum-bond/bond-core/internal/consensus"
	"github.com/aevum-bond/bond-core/internal/genesis"
	"github.com/aevum-bond/bond-core/internal/miner"
	"github.com/aevum-bond/bond-core/pkg/block"
	"github.com/aevum-bond/bond-core/pkg/sigengine"
	"github.com/aevum-bond/bond-core/pkg/types"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "genesis":
		err = runGenesis(os.Args[2:])
	case "mine":
		err = runMine(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "bondd: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "bondd: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bondd <genesis|mine|validate|stats> [flags]")
}

// exitCode maps a bonderr variant to a distinct non-zero exit status so
// scripted callers can distinguish failure categories without parsing
// stderr text.
func exitCode(err error) int {
	switch {
	case errors.As(err, new(*bonderr.InvalidProofOfWork)):
		return 10
	case errors.As(err, new(*bonderr.InvalidBlockHash)):
		return 11
	case errors.As(err, new(*bonderr.InvalidTransaction)):
		return 12
	case errors.As(err, new(*bonderr.InvalidUtxo)):
		return 13
	case errors.As(err, new(*bonderr.DoubleSpending)):
		return 14
	case errors.As(err, new(*bonderr.ScriptExecutionFailed)):
		return 15
	case errors.As(err, new(*bonderr.InsufficientFunds)):
		return 16
	default:
		return 1
	}
}

// runGenesis builds and prints the fixed genesis block.
func runGenesis(args []string) error {
	g := genesis.Block()
	return printJSON(map[string]any{
		"hash":        g.Hash().String(),
		"merkle_root": g.Header.MerkleRoot.String(),
		"timestamp":   g.Header.Timestamp,
		"target":      g.Header.Target.String(),
		"reward":      genesis.Reward,
		"coinbase":    g.Transactions[0].Hash().String(),
	})
}

// runMine seals a throwaway header at the requested difficulty and reports
// the search results. difficulty is the number of leading zero bits
// required of the target, not the header hash itself — 0 is trivial
// (MaxTarget), larger values are harder.
func runMine(args []string) error {
	fs := flag.NewFlagSet("mine", flag.ContinueOnError)
	difficulty := fs.Int("difficulty", 0, "number of leading zero bits in the mining target")
	timeout := fs.Duration("timeout", 30*time.Second, "maximum time to search before giving up")
	if err := fs.Parse(args); err != nil {
		return err
	}

	header := &block.Header{
		Version:    block.CurrentVersion,
		MerkleRoot: types.Hash{},
		Timestamp:  uint64(time.Now().Unix()),
		Target:     targetForDifficulty(*difficulty),
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	m := miner.New()
	start := time.Now()
	result, err := m.Mine(ctx, header, func(r miner.Result) {
		fmt.Fprintf(os.Stderr, "bondd: %d hashes, %.0f H/s\n", r.HashesAttempted, r.HashRate)
	})
	if err != nil {
		return err
	}

	return printJSON(map[string]any{
		"nonce":            header.Nonce,
		"hash":             header.Hash().String(),
		"target":           header.Target.String(),
		"hashes_attempted": result.HashesAttempted,
		"elapsed":          time.Since(start).String(),
		"hash_rate":        result.HashRate,
	})
}

// runValidate constructs a fresh chain state driven by mainnet protocol
// rules, applies the genesis block, and reports the resulting stats.
func runValidate(args []string) error {
	rules := config.MainnetProtocolRules()
	pow, err := consensus.NewPoW(types.MaxTarget, rules.RetargetPeriod, rules.TargetBlockTime, rules.StrictDifficulty)
	if err != nil {
		return err
	}

	state := chain.New(pow, sigengine.Level3Verifier{})
	if err := state.AddBlock(genesis.Block()); err != nil {
		return err
	}

	stats := state.Stats()
	return printJSON(map[string]any{
		"height":             stats.Height,
		"total_transactions": stats.TotalTransactions,
		"utxo_count":         stats.UTXOCount,
		"total_supply":       stats.TotalSupply,
	})
}

// runStats prints the static protocol parameters for a network, without
// touching chain state.
func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	network := fs.String("network", "mainnet", "mainnet or testnet")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rules := config.ProtocolRulesFor(config.NetworkType(*network))
	return printJSON(map[string]any{
		"network":           *network,
		"target_block_time": rules.TargetBlockTime,
		"retarget_period":   rules.RetargetPeriod,
		"strict_difficulty": rules.StrictDifficulty,
		"genesis_timestamp": genesis.Timestamp,
		"genesis_reward":    genesis.Reward,
		"max_block_size":    block.MaxBlockSize,
	})
}

// targetForDifficulty shifts types.MaxTarget right by the given number of
// bits, the same big.Int idiom internal/consensus uses for retarget
// arithmetic, producing a harder target as difficulty grows.
func targetForDifficulty(difficulty int) types.DifficultyTarget {
	if difficulty <= 0 {
		return types.MaxTarget
	}
	max := new(big.Int).SetBytes(types.MaxTarget.Bytes())
	shifted := new(big.Int).Rsh(max, uint(difficulty))

	var out types.DifficultyTarget
	b := shifted.Bytes()
	copy(out[types.TargetSize-len(b):], b)
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
