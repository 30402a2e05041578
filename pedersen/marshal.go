package pedersen

import (
	"encoding/binary"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
)

// g1Size is the compressed encoding size of a G1 affine point, matching
// gnark-crypto's Marshal output.
const g1Size = 48

func marshalScalar(s *big.Int) []byte {
	b := s.Bytes()
	out := make([]byte, 0, 1+len(b))
	out = append(out, byte(len(b)))
	out = append(out, b...)
	return out
}

func unmarshalScalar(data []byte) (*big.Int, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("pedersen: %w: truncated scalar length", common.ErrSerialization)
	}
	n := int(data[0])
	if len(data) < 1+n {
		return nil, nil, fmt.Errorf("pedersen: %w: truncated scalar value", common.ErrSerialization)
	}
	return new(big.Int).SetBytes(data[1 : 1+n]), data[1+n:], nil
}

func marshalG1Vector(points []bls12381.G1Affine) []byte {
	out := make([]byte, 0, 4+g1Size*len(points))
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(points)))
	out = append(out, countBuf[:]...)
	for i := range points {
		out = append(out, points[i].Marshal()...)
	}
	return out
}

func unmarshalG1Vector(data []byte) ([]bls12381.G1Affine, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("pedersen: %w: truncated point count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(count)*g1Size {
		return nil, nil, fmt.Errorf("pedersen: %w: truncated point vector", common.ErrSerialization)
	}
	points := make([]bls12381.G1Affine, count)
	for i := range points {
		if err := points[i].Unmarshal(data[:g1Size]); err != nil {
			return nil, nil, fmt.Errorf("pedersen: %w: point %d: %v", common.ErrSerialization, i, err)
		}
		data = data[g1Size:]
	}
	return points, data, nil
}

// Marshal encodes c as its base vector followed by its commitment point.
func (c *Commitment) Marshal() []byte {
	out := marshalG1Vector(c.Bases)
	out = append(out, c.C.Marshal()...)
	return out
}

// DeserializeCommitment decodes the output of Commitment.Marshal.
func DeserializeCommitment(data []byte) (*Commitment, error) {
	bases, rest, err := unmarshalG1Vector(data)
	if err != nil {
		return nil, err
	}
	if len(rest) < g1Size {
		return nil, fmt.Errorf("pedersen: %w: truncated commitment point", common.ErrSerialization)
	}
	var c bls12381.G1Affine
	if err := c.Unmarshal(rest[:g1Size]); err != nil {
		return nil, fmt.Errorf("pedersen: %w: C: %v", common.ErrSerialization, err)
	}
	return &Commitment{Bases: bases, C: c}, nil
}

// Marshal encodes the Schnorr commitment T as a compressed G1 point.
func (c *Commit) Marshal() []byte {
	return c.T.Marshal()
}

// DeserializeCommit decodes the output of Commit.Marshal.
func DeserializeCommit(data []byte) (*Commit, error) {
	if len(data) != g1Size {
		return nil, fmt.Errorf("pedersen: %w: commit must be %d bytes", common.ErrSerialization, g1Size)
	}
	var t bls12381.G1Affine
	if err := t.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("pedersen: %w: %v", common.ErrSerialization, err)
	}
	return &Commit{T: t}, nil
}

// Marshal encodes resp as a 4-byte count followed by that many
// length-prefixed scalars.
func (resp *Response) Marshal() []byte {
	out := make([]byte, 0, 4+40*len(resp.Z))
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(resp.Z)))
	out = append(out, countBuf[:]...)
	for _, z := range resp.Z {
		out = append(out, marshalScalar(z)...)
	}
	return out
}

// DeserializeResponse decodes the output of Response.Marshal.
func DeserializeResponse(data []byte) (*Response, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("pedersen: %w: truncated response count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	z := make([]*big.Int, count)
	var err error
	for i := range z {
		z[i], data, err = unmarshalScalar(data)
		if err != nil {
			return nil, err
		}
	}
	return &Response{Z: z}, nil
}
