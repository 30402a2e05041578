package crypto

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/internal/pool"
)

// parallelThreshold is the point count below which a single goroutine is
// cheaper than coordinating a worker pool.
const parallelThreshold = 32

// maxWorkers caps goroutine fan-out for a single multi-scalar multiplication;
// BBS+ message vectors rarely exceed a few hundred slots, so there is little
// benefit in scaling past a modest worker count.
const maxWorkers = 8

// MultiScalarMulG1 computes the sum of points[i]*scalars[i] in G1. Large
// inputs are split into chunks and accumulated concurrently across
// runtime.GOMAXPROCS(0) workers, capped at maxWorkers.
func MultiScalarMulG1(points []bls12381.G1Affine, scalars []*big.Int) (bls12381.G1Affine, error) {
	if len(points) != len(scalars) {
		return bls12381.G1Affine{}, common.ErrMismatchedLengths
	}
	if len(points) == 0 {
		return bls12381.G1Affine{}, nil
	}

	frScalars := make([]fr.Element, len(scalars))
	for i, scalar := range scalars {
		if scalar == nil {
			return bls12381.G1Affine{}, fmt.Errorf("crypto: nil scalar at index %d", i)
		}
		frScalars[i].SetBigInt(scalar)
	}

	if len(points) < parallelThreshold {
		return directMSM(points, frScalars), nil
	}
	return parallelMSM(points, frScalars), nil
}

// parallelMSM splits points/scalars into contiguous chunks, accumulates each
// chunk's direct MSM on its own goroutine, and sums the partial results.
func parallelMSM(points []bls12381.G1Affine, scalars []fr.Element) bls12381.G1Affine {
	workers := runtime.GOMAXPROCS(0)
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (len(points) + workers - 1) / workers
	partials := make([]bls12381.G1Jac, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= len(points) {
			break
		}
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			affine := directMSM(points[start:end], scalars[start:end])
			partials[w].FromAffine(&affine)
		}(w, start, end)
	}
	wg.Wait()

	var result bls12381.G1Jac
	for i := range partials {
		result.AddAssign(&partials[i])
	}

	var out bls12381.G1Affine
	out.FromJacobian(&result)
	return out
}

// directMSM accumulates points[i]*scalars[i] sequentially in Jacobian
// coordinates, skipping identity contributions. Scratch values come from the
// shared pool since this runs once per chunk per proof/signing operation
// across every goroutine parallelMSM spawns.
func directMSM(points []bls12381.G1Affine, scalars []fr.Element) bls12381.G1Affine {
	p := pool.Default()
	result := p.GetG1Jac()
	*result = bls12381.G1Jac{}
	defer p.PutG1Jac(result)

	scalarBig := p.GetBigInt()
	defer p.PutBigInt(scalarBig)

	tmp := p.GetG1Jac()
	defer p.PutG1Jac(tmp)

	for i := range points {
		if scalars[i].IsZero() || points[i].IsInfinity() {
			continue
		}
		scalars[i].ToBigIntRegular(scalarBig)

		tmp.FromAffine(&points[i])
		tmp.ScalarMultiplication(tmp, scalarBig)
		result.AddAssign(tmp)
	}

	var affine bls12381.G1Affine
	affine.FromJacobian(result)
	return affine
}
