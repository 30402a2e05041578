package compose

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
)

// commitments is the ordered, per-statement public commitment data hashed
// into the shared challenge: a Pedersen Commit's T, or a BBS+ statement's
// (A', Ā, d, T1, T2).
type commitments struct {
	pedersen map[int]bls12381.G1Affine
	bbs      map[int]bbs.ProofCommitment
}

// domainSeparator tags the challenge transcript so a sub-proof's commitments
// cannot be replayed against a differently-keyed hash construction.
const domainSeparator = "BBSPLUS_COMPOSE_CHALLENGE_V1"

// computeSharedChallenge folds the domain separator, ProofSpec.Context,
// every statement's commitment, every disclosed BBS+ message, and the
// caller-supplied nonce, in that order, into a single Fiat-Shamir challenge shared by every
// sub-proof, binding the whole ProofSpec together so a sub-proof cannot be
// lifted into a different composition and a proof cannot be replayed against
// a verifier that supplied a different nonce.
func computeSharedChallenge(spec *ProofSpec, cs *commitments, nonce []byte) *big.Int {
	h := sha256.New()

	write := func(b []byte) {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
		h.Write(lenBuf[:])
		h.Write(b)
	}

	write([]byte(domainSeparator))
	write(spec.Context)

	for i, st := range spec.Statements {
		switch s := st.(type) {
		case *PedersenStatement:
			write(cs.pedersen[i].Marshal())
			write(s.C.Marshal())
			for _, base := range s.Bases {
				write(base.Marshal())
			}
		case *BBSPlusStatement:
			c := cs.bbs[i]
			write(c.APrime.Marshal())
			write(c.ABar.Marshal())
			write(c.D.Marshal())
			write(c.T1.Marshal())
			write(c.T2.Marshal())
			write(s.Header)

			indices := make([]int, 0, len(s.Disclosed))
			for idx, on := range s.Disclosed {
				if on {
					indices = append(indices, idx)
				}
			}
			sort.Ints(indices)
			for _, idx := range indices {
				var idxBuf [4]byte
				binary.BigEndian.PutUint32(idxBuf[:], uint32(idx))
				h.Write(idxBuf[:])
				write(s.DisclosedMessages[idx].Bytes())
			}
		}
	}
	write(nonce)

	digest := h.Sum(nil)
	c := new(big.Int).SetBytes(digest)
	return c.Mod(c, common.Order)
}
