package bbs

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
)

// computeChallenge folds (A', Ā, d, T1, T2, disclosed messages, public key,
// params, header) into a single Fiat-Shamir challenge in a fixed canonical
// order.
func computeChallenge(aPrime, aBar, d, t1, t2 bls12381.G1Affine, pk *PublicKey, params *SignatureParams, disclosedMessages MessageVector, disclosed map[int]bool, header []byte) *big.Int {
	h := sha256.New()
	h.Write(aPrime.Marshal())
	h.Write(aBar.Marshal())
	h.Write(d.Marshal())
	h.Write(t1.Marshal())
	h.Write(t2.Marshal())
	h.Write(pk.W.Marshal())
	h.Write(params.G1.Marshal())
	h.Write(params.G2.Marshal())
	h.Write(params.H0.Marshal())
	for i := range params.H {
		h.Write(params.H[i].Marshal())
	}

	indices := make([]int, 0, len(disclosed))
	for i := range disclosed {
		if disclosed[i] {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	var idxBuf [4]byte
	for _, idx := range indices {
		binary.BigEndian.PutUint32(idxBuf[:], uint32(idx))
		h.Write(idxBuf[:])
		m := disclosedMessages[idx]
		mb := m.Bytes()
		binary.BigEndian.PutUint32(idxBuf[:], uint32(len(mb)))
		h.Write(idxBuf[:])
		h.Write(mb)
	}

	h.Write(header)

	digest := h.Sum(nil)
	c := new(big.Int).SetBytes(digest)
	return c.Mod(c, common.Order)
}
