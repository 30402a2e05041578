// Package benchmarks times the core BBS+ operations over a configurable
// message and disclosure count. Rendering the results (text, JSON, or a
// latency chart via go-chart) is done by cmd/bench.
package benchmarks

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/cryptoutil/bbsplus/bbs"
)

// Config controls a benchmark run.
type Config struct {
	Name           string
	MessageCount   int
	DisclosedCount int
	Iterations     int
	UseBatch       bool
}

// OperationResult is the timing summary for one operation across Iterations runs.
type OperationResult struct {
	Operation string
	Mean      time.Duration
	Min       time.Duration
	Max       time.Duration
}

// Result is the full output of a Run.
type Result struct {
	Config     Config
	Operations []OperationResult
}

func timeOp(name string, iterations int, fn func() error) (OperationResult, error) {
	var total, min, max time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return OperationResult{}, fmt.Errorf("benchmarks: %s: %w", name, err)
		}
		d := time.Since(start)
		total += d
		if i == 0 || d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return OperationResult{
		Operation: name,
		Mean:      total / time.Duration(iterations),
		Min:       min,
		Max:       max,
	}, nil
}

// Run executes Sign, Verify, ProveKnowledge, and VerifyKnowledge
// cfg.Iterations times each, plus (if cfg.UseBatch) one BatchVerify call
// over cfg.Iterations signatures, and returns their latency summaries.
func Run(cfg Config) (*Result, error) {
	if cfg.MessageCount < 1 {
		return nil, fmt.Errorf("benchmarks: message count must be at least 1")
	}
	if cfg.DisclosedCount < 0 || cfg.DisclosedCount > cfg.MessageCount {
		return nil, fmt.Errorf("benchmarks: disclosed count must be between 0 and %d", cfg.MessageCount)
	}
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("benchmarks: iterations must be at least 1")
	}

	params, err := bbs.NewSignatureParamsDeterministic("cmd/bench", cfg.MessageCount)
	if err != nil {
		return nil, fmt.Errorf("benchmarks: %w", err)
	}
	sk, err := bbs.SecretKeyFromRandom(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("benchmarks: %w", err)
	}
	defer sk.Destroy()
	pk := bbs.PublicKeyFromSecret(sk, params)

	messages := make(bbs.MessageVector, cfg.MessageCount)
	for i := 1; i <= cfg.MessageCount; i++ {
		messages[i] = big.NewInt(int64(i * 7919))
	}

	disclosed := make(map[int]bool, cfg.DisclosedCount)
	disclosedMessages := make(bbs.MessageVector, cfg.DisclosedCount)
	for i := 1; i <= cfg.DisclosedCount; i++ {
		disclosed[i] = true
		disclosedMessages[i] = messages[i]
	}

	var sig *bbs.Signature
	var pok *bbs.ProofOfKnowledge
	result := &Result{Config: cfg}

	signOp, err := timeOp("Sign", cfg.Iterations, func() error {
		s, err := bbs.Sign(sk, params, messages, rand.Reader)
		if err != nil {
			return err
		}
		sig = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Operations = append(result.Operations, signOp)

	verifyOp, err := timeOp("Verify", cfg.Iterations, func() error {
		return bbs.Verify(pk, params, sig, messages)
	})
	if err != nil {
		return nil, err
	}
	result.Operations = append(result.Operations, verifyOp)

	proveOp, err := timeOp("ProveKnowledge", cfg.Iterations, func() error {
		p, err := bbs.ProveKnowledge(pk, params, sig, messages, disclosed, nil, []byte(cfg.Name), bbs.NewRNG(rand.Reader))
		if err != nil {
			return err
		}
		pok = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Operations = append(result.Operations, proveOp)

	verifyProofOp, err := timeOp("VerifyKnowledge", cfg.Iterations, func() error {
		return bbs.VerifyKnowledge(pk, params, pok, disclosedMessages, disclosed, []byte(cfg.Name))
	})
	if err != nil {
		return nil, err
	}
	result.Operations = append(result.Operations, verifyProofOp)

	if cfg.UseBatch {
		sigs := make([]*bbs.Signature, cfg.Iterations)
		messageSets := make([]bbs.MessageVector, cfg.Iterations)
		for i := range sigs {
			s, err := bbs.Sign(sk, params, messages, rand.Reader)
			if err != nil {
				return nil, fmt.Errorf("benchmarks: BatchVerify setup: %w", err)
			}
			sigs[i] = s
			messageSets[i] = messages
		}
		batchOp, err := timeOp("BatchVerify", 1, func() error {
			return bbs.BatchVerify(pk, params, sigs, messageSets)
		})
		if err != nil {
			return nil, err
		}
		result.Operations = append(result.Operations, batchOp)
	}

	return result, nil
}
