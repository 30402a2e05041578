package compose

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
)

// Compressed point sizes for BLS12-381, matching gnark-crypto's Marshal
// output.
const (
	g1Size = 48
	g2Size = 96
)

// tagPedersen/tagBBSPlus distinguish the two concrete Statement, Witness and
// SubProof kinds in the tagged encoding below.
const (
	tagPedersen byte = 0
	tagBBSPlus  byte = 1
)

func marshalScalar(s *big.Int) []byte {
	b := s.Bytes()
	out := make([]byte, 0, 1+len(b))
	out = append(out, byte(len(b)))
	out = append(out, b...)
	return out
}

func unmarshalScalar(data []byte) (*big.Int, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("compose: %w: truncated scalar length", common.ErrSerialization)
	}
	n := int(data[0])
	if len(data) < 1+n {
		return nil, nil, fmt.Errorf("compose: %w: truncated scalar value", common.ErrSerialization)
	}
	return new(big.Int).SetBytes(data[1 : 1+n]), data[1+n:], nil
}

// writeBlock length-prefixes an arbitrary byte string so variable-length
// sub-encodings can be embedded in a larger stream without needing their own
// length tracked by the caller.
func writeBlock(out, b []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	out = append(out, lenBuf[:]...)
	return append(out, b...)
}

func readBlock(data []byte) ([]byte, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated block length", common.ErrSerialization)
	}
	n := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(n) {
		return nil, nil, fmt.Errorf("compose: %w: truncated block", common.ErrSerialization)
	}
	return data[:n], data[n:], nil
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
		return nil, nil, fmt.Errorf("compose: %w: truncated point count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	if uint64(len(data)) < uint64(count)*g1Size {
		return nil, nil, fmt.Errorf("compose: %w: truncated point vector", common.ErrSerialization)
	}
	points := make([]bls12381.G1Affine, count)
	for i := range points {
		if err := points[i].Unmarshal(data[:g1Size]); err != nil {
			return nil, nil, fmt.Errorf("compose: %w: point %d: %v", common.ErrSerialization, i, err)
		}
		data = data[g1Size:]
	}
	return points, data, nil
}

func marshalScalarVector(scalars []*big.Int) []byte {
	out := make([]byte, 0, 4+40*len(scalars))
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(scalars)))
	out = append(out, countBuf[:]...)
	for _, s := range scalars {
		out = append(out, marshalScalar(s)...)
	}
	return out
}

func unmarshalScalarVector(data []byte) ([]*big.Int, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated scalar count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	out := make([]*big.Int, count)
	var err error
	for i := range out {
		out[i], data, err = unmarshalScalar(data)
		if err != nil {
			return nil, nil, err
		}
	}
	return out, data, nil
}

// marshalMessageVector encodes m as a 4-byte count followed by that many
// (4-byte index, length-prefixed scalar) entries in ascending index order.
func marshalMessageVector(m bbs.MessageVector) []byte {
	indices := make([]int, 0, len(m))
	for idx := range m {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	out := make([]byte, 0, 4+40*len(indices))
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(indices)))
	out = append(out, countBuf[:]...)
	for _, idx := range indices {
		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(idx))
		out = append(out, idxBuf[:]...)
		out = append(out, marshalScalar(m[idx])...)
	}
	return out
}

func unmarshalMessageVector(data []byte) (bbs.MessageVector, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated message vector count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	m := make(bbs.MessageVector, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, nil, fmt.Errorf("compose: %w: truncated message vector index", common.ErrSerialization)
		}
		idx := int(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]
		var v *big.Int
		var err error
		v, data, err = unmarshalScalar(data)
		if err != nil {
			return nil, nil, err
		}
		m[idx] = v
	}
	return m, data, nil
}

// marshalIndexSet encodes the true entries of disclosed as a 4-byte count
// followed by that many 4-byte ascending indices.
func marshalIndexSet(disclosed map[int]bool) []byte {
	indices := make([]int, 0, len(disclosed))
	for idx, on := range disclosed {
		if on {
			indices = append(indices, idx)
		}
	}
	sort.Ints(indices)

	out := make([]byte, 0, 4+4*len(indices))
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(indices)))
	out = append(out, countBuf[:]...)
	for _, idx := range indices {
		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(idx))
		out = append(out, idxBuf[:]...)
	}
	return out
}

func unmarshalIndexSet(data []byte) (map[int]bool, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated index set count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	out := make(map[int]bool, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, nil, fmt.Errorf("compose: %w: truncated index set entry", common.ErrSerialization)
		}
		out[int(binary.BigEndian.Uint32(data[:4]))] = true
		data = data[4:]
	}
	return out, data, nil
}

func marshalSetupRef(ref SetupRef) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(ref.ParamsIndex))
	binary.BigEndian.PutUint32(buf[4:], uint32(ref.KeyIndex))
	return buf[:]
}

func unmarshalSetupRef(data []byte) (SetupRef, []byte, error) {
	if len(data) < 8 {
		return SetupRef{}, nil, fmt.Errorf("compose: %w: truncated setup ref", common.ErrSerialization)
	}
	ref := SetupRef{
		ParamsIndex: int(binary.BigEndian.Uint32(data[:4])),
		KeyIndex:    int(binary.BigEndian.Uint32(data[4:8])),
	}
	return ref, data[8:], nil
}

// Marshal encodes ref as (4-byte statement index, 4-byte witness index).
func (ref WitnessRef) Marshal() []byte {
	var buf [8]byte
	binary.BigEndian.PutUint32(buf[:4], uint32(ref.StatementIndex))
	binary.BigEndian.PutUint32(buf[4:], uint32(ref.WitnessIndex))
	return buf[:]
}

func unmarshalWitnessRef(data []byte) (WitnessRef, []byte, error) {
	if len(data) < 8 {
		return WitnessRef{}, nil, fmt.Errorf("compose: %w: truncated witness ref", common.ErrSerialization)
	}
	ref := WitnessRef{
		StatementIndex: int(binary.BigEndian.Uint32(data[:4])),
		WitnessIndex:   int(binary.BigEndian.Uint32(data[4:8])),
	}
	return ref, data[8:], nil
}

// Marshal encodes ms as a 4-byte count followed by that many WitnessRefs.
func (ms *MetaStatement) Marshal() []byte {
	out := make([]byte, 0, 4+8*len(ms.Refs))
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(ms.Refs)))
	out = append(out, countBuf[:]...)
	for _, ref := range ms.Refs {
		out = append(out, ref.Marshal()...)
	}
	return out
}

func unmarshalMetaStatement(data []byte) (MetaStatement, []byte, error) {
	if len(data) < 4 {
		return MetaStatement{}, nil, fmt.Errorf("compose: %w: truncated meta-statement count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	refs := make([]WitnessRef, count)
	var err error
	for i := range refs {
		refs[i], data, err = unmarshalWitnessRef(data)
		if err != nil {
			return MetaStatement{}, nil, err
		}
	}
	return MetaStatement{Refs: refs}, data, nil
}

// marshalStatement encodes st with a leading tag byte identifying its
// concrete type.
func marshalStatement(st Statement) ([]byte, error) {
	switch s := st.(type) {
	case *PedersenStatement:
		out := []byte{tagPedersen}
		out = append(out, marshalG1Vector(s.Bases)...)
		out = append(out, s.C.Marshal()...)
		if s.SetupIndex == nil {
			out = append(out, 0)
		} else {
			var idxBuf [4]byte
			binary.BigEndian.PutUint32(idxBuf[:], uint32(*s.SetupIndex))
			out = append(out, 1)
			out = append(out, idxBuf[:]...)
		}
		return out, nil

	case *BBSPlusStatement:
		out := []byte{tagBBSPlus}
		out = append(out, marshalSetupRef(s.Setup)...)
		out = append(out, marshalIndexSet(s.Disclosed)...)
		out = append(out, marshalMessageVector(s.DisclosedMessages)...)
		out = writeBlock(out, s.Header)
		var countBuf [4]byte
		binary.BigEndian.PutUint32(countBuf[:], uint32(s.MessageSlotCount))
		out = append(out, countBuf[:]...)
		return out, nil

	default:
		return nil, fmt.Errorf("compose: %w: unknown statement type", common.ErrSerialization)
	}
}

func unmarshalStatement(data []byte) (Statement, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("compose: %w: truncated statement tag", common.ErrSerialization)
	}
	tag := data[0]
	data = data[1:]

	switch tag {
	case tagPedersen:
		bases, rest, err := unmarshalG1Vector(data)
		if err != nil {
			return nil, nil, err
		}
		if len(rest) < g1Size+1 {
			return nil, nil, fmt.Errorf("compose: %w: truncated pedersen statement", common.ErrSerialization)
		}
		var c bls12381.G1Affine
		if err := c.Unmarshal(rest[:g1Size]); err != nil {
			return nil, nil, fmt.Errorf("compose: %w: C: %v", common.ErrSerialization, err)
		}
		rest = rest[g1Size:]

		present := rest[0]
		rest = rest[1:]
		var setupIdx *int
		if present == 1 {
			if len(rest) < 4 {
				return nil, nil, fmt.Errorf("compose: %w: truncated pedersen setup index", common.ErrSerialization)
			}
			idx := int(binary.BigEndian.Uint32(rest[:4]))
			setupIdx = &idx
			rest = rest[4:]
		}
		return &PedersenStatement{Bases: bases, C: c, SetupIndex: setupIdx}, rest, nil

	case tagBBSPlus:
		setupRef, rest, err := unmarshalSetupRef(data)
		if err != nil {
			return nil, nil, err
		}
		disclosed, rest, err := unmarshalIndexSet(rest)
		if err != nil {
			return nil, nil, err
		}
		disclosedMessages, rest, err := unmarshalMessageVector(rest)
		if err != nil {
			return nil, nil, err
		}
		header, rest, err := readBlock(rest)
		if err != nil {
			return nil, nil, err
		}
		if len(rest) < 4 {
			return nil, nil, fmt.Errorf("compose: %w: truncated message slot count", common.ErrSerialization)
		}
		slotCount := int(binary.BigEndian.Uint32(rest[:4]))
		rest = rest[4:]

		return &BBSPlusStatement{
			Setup:             setupRef,
			Disclosed:         disclosed,
			DisclosedMessages: disclosedMessages,
			Header:            append([]byte(nil), header...),
			MessageSlotCount:  slotCount,
		}, rest, nil

	default:
		return nil, nil, fmt.Errorf("compose: %w: unknown statement tag %d", common.ErrSerialization, tag)
	}
}

// marshalWitness encodes w with a leading tag byte identifying its concrete
// type.
func marshalWitness(w Witness) ([]byte, error) {
	switch ww := w.(type) {
	case *PedersenWitness:
		out := []byte{tagPedersen}
		out = append(out, marshalScalarVector(ww.Openings)...)
		return out, nil

	case *BBSPlusWitness:
		out := []byte{tagBBSPlus}
		out = writeBlock(out, ww.Signature.Marshal())
		out = append(out, marshalMessageVector(ww.Messages)...)
		return out, nil

	default:
		return nil, fmt.Errorf("compose: %w: unknown witness type", common.ErrSerialization)
	}
}

func unmarshalWitness(data []byte) (Witness, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("compose: %w: truncated witness tag", common.ErrSerialization)
	}
	tag := data[0]
	data = data[1:]

	switch tag {
	case tagPedersen:
		openings, rest, err := unmarshalScalarVector(data)
		if err != nil {
			return nil, nil, err
		}
		return &PedersenWitness{Openings: openings}, rest, nil

	case tagBBSPlus:
		sigBytes, rest, err := readBlock(data)
		if err != nil {
			return nil, nil, err
		}
		sig, err := bbs.DeserializeSignature(sigBytes)
		if err != nil {
			return nil, nil, err
		}
		messages, rest, err := unmarshalMessageVector(rest)
		if err != nil {
			return nil, nil, err
		}
		return &BBSPlusWitness{Signature: sig, Messages: messages}, rest, nil

	default:
		return nil, nil, fmt.Errorf("compose: %w: unknown witness tag %d", common.ErrSerialization, tag)
	}
}

// Marshal encodes setup as its BBS params, BBS public keys, and Pedersen
// commitment keys, each section a 4-byte count followed by that many
// entries: length-prefixed blocks for params, fixed-size encodings for
// public keys, and count-prefixed point vectors for commitment keys.
func (setup *SetupParams) Marshal() []byte {
	var out []byte

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(setup.BBSParams)))
	out = append(out, countBuf[:]...)
	for _, p := range setup.BBSParams {
		out = writeBlock(out, p.Marshal())
	}

	binary.BigEndian.PutUint32(countBuf[:], uint32(len(setup.BBSPublicKeys)))
	out = append(out, countBuf[:]...)
	for _, pk := range setup.BBSPublicKeys {
		out = append(out, pk.Marshal()...)
	}

	binary.BigEndian.PutUint32(countBuf[:], uint32(len(setup.PedersenCommitmentKeys)))
	out = append(out, countBuf[:]...)
	for _, keys := range setup.PedersenCommitmentKeys {
		out = append(out, marshalG1Vector(keys)...)
	}

	return out
}

func unmarshalSetupParams(data []byte) (*SetupParams, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated bbs params count", common.ErrSerialization)
	}
	paramsCount := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	params := make([]*bbs.SignatureParams, paramsCount)
	for i := range params {
		var block []byte
		var err error
		block, data, err = readBlock(data)
		if err != nil {
			return nil, nil, err
		}
		params[i], err = bbs.DeserializeSignatureParams(block)
		if err != nil {
			return nil, nil, err
		}
	}

	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated bbs public key count", common.ErrSerialization)
	}
	keyCount := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	keys := make([]*bbs.PublicKey, keyCount)
	for i := range keys {
		if len(data) < g2Size {
			return nil, nil, fmt.Errorf("compose: %w: truncated bbs public key", common.ErrSerialization)
		}
		var err error
		keys[i], err = bbs.DeserializePublicKey(data[:g2Size])
		if err != nil {
			return nil, nil, err
		}
		data = data[g2Size:]
	}

	if len(data) < 4 {
		return nil, nil, fmt.Errorf("compose: %w: truncated pedersen key count", common.ErrSerialization)
	}
	pedersenCount := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	pedersenKeys := make([][]bls12381.G1Affine, pedersenCount)
	for i := range pedersenKeys {
		var err error
		pedersenKeys[i], data, err = unmarshalG1Vector(data)
		if err != nil {
			return nil, nil, err
		}
	}

	return &SetupParams{BBSParams: params, BBSPublicKeys: keys, PedersenCommitmentKeys: pedersenKeys}, data, nil
}

// Marshal encodes spec as its statements, meta-statements, setup params (if
// any), and context, each length-prefixed for deterministic round-tripping.
func (spec *ProofSpec) Marshal() ([]byte, error) {
	var out []byte

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(spec.Statements)))
	out = append(out, countBuf[:]...)
	for _, st := range spec.Statements {
		enc, err := marshalStatement(st)
		if err != nil {
			return nil, err
		}
		out = writeBlock(out, enc)
	}

	binary.BigEndian.PutUint32(countBuf[:], uint32(len(spec.MetaStatements)))
	out = append(out, countBuf[:]...)
	for i := range spec.MetaStatements {
		out = writeBlock(out, spec.MetaStatements[i].Marshal())
	}

	if spec.Setup == nil {
		out = append(out, 0)
	} else {
		out = append(out, 1)
		out = writeBlock(out, spec.Setup.Marshal())
	}

	out = writeBlock(out, spec.Context)
	return out, nil
}

// DeserializeProofSpec decodes the output of ProofSpec.Marshal. The returned
// spec has not had Validate called on it.
func DeserializeProofSpec(data []byte) (*ProofSpec, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("compose: %w: truncated statement count", common.ErrSerialization)
	}
	stCount := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	statements := make([]Statement, stCount)
	for i := range statements {
		var block []byte
		var err error
		block, data, err = readBlock(data)
		if err != nil {
			return nil, err
		}
		statements[i], _, err = unmarshalStatement(block)
		if err != nil {
			return nil, err
		}
	}

	if len(data) < 4 {
		return nil, fmt.Errorf("compose: %w: truncated meta-statement count", common.ErrSerialization)
	}
	msCount := binary.BigEndian.Uint32(data[:4])
	data = data[4:]
	metaStatements := make([]MetaStatement, msCount)
	for i := range metaStatements {
		var block []byte
		var err error
		block, data, err = readBlock(data)
		if err != nil {
			return nil, err
		}
		metaStatements[i], _, err = unmarshalMetaStatement(block)
		if err != nil {
			return nil, err
		}
	}

	if len(data) < 1 {
		return nil, fmt.Errorf("compose: %w: truncated setup presence flag", common.ErrSerialization)
	}
	present := data[0]
	data = data[1:]

	var setup *SetupParams
	if present == 1 {
		var block []byte
		var err error
		block, data, err = readBlock(data)
		if err != nil {
			return nil, err
		}
		setup, _, err = unmarshalSetupParams(block)
		if err != nil {
			return nil, err
		}
	}

	context, _, err := readBlock(data)
	if err != nil {
		return nil, err
	}

	return &ProofSpec{
		Statements:     statements,
		MetaStatements: metaStatements,
		Setup:          setup,
		Context:        append([]byte(nil), context...),
	}, nil
}

// Marshal encodes sp with a leading tag byte identifying which sub-proof it
// carries.
func (sp *SubProof) Marshal() []byte {
	switch sp.Kind {
	case KindPedersen:
		out := []byte{tagPedersen}
		out = append(out, sp.Pedersen.T.Marshal()...)
		out = append(out, marshalScalarVector(sp.Pedersen.Z)...)
		return out
	case KindBBSPlus:
		out := []byte{tagBBSPlus}
		return writeBlock(out, sp.BBSPlus.Marshal())
	default:
		return nil
	}
}

func unmarshalSubProof(data []byte) (SubProof, []byte, error) {
	if len(data) < 1 {
		return SubProof{}, nil, fmt.Errorf("compose: %w: truncated sub-proof tag", common.ErrSerialization)
	}
	tag := data[0]
	data = data[1:]

	switch tag {
	case tagPedersen:
		if len(data) < g1Size {
			return SubProof{}, nil, fmt.Errorf("compose: %w: truncated pedersen sub-proof", common.ErrSerialization)
		}
		var t bls12381.G1Affine
		if err := t.Unmarshal(data[:g1Size]); err != nil {
			return SubProof{}, nil, fmt.Errorf("compose: %w: T: %v", common.ErrSerialization, err)
		}
		data = data[g1Size:]
		z, rest, err := unmarshalScalarVector(data)
		if err != nil {
			return SubProof{}, nil, err
		}
		return SubProof{Kind: KindPedersen, Pedersen: &PedersenSubProof{T: t, Z: z}}, rest, nil

	case tagBBSPlus:
		block, rest, err := readBlock(data)
		if err != nil {
			return SubProof{}, nil, err
		}
		proof, err := bbs.DeserializeProofOfKnowledge(block)
		if err != nil {
			return SubProof{}, nil, err
		}
		return SubProof{Kind: KindBBSPlus, BBSPlus: proof}, rest, nil

	default:
		return SubProof{}, nil, fmt.Errorf("compose: %w: unknown sub-proof tag %d", common.ErrSerialization, tag)
	}
}

// Marshal encodes proof as its sub-proofs followed by the shared challenge.
func (proof *Proof) Marshal() []byte {
	var out []byte
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(proof.SubProofs)))
	out = append(out, countBuf[:]...)
	for i := range proof.SubProofs {
		out = writeBlock(out, proof.SubProofs[i].Marshal())
	}
	out = append(out, marshalScalar(proof.Challenge)...)
	return out
}

// DeserializeProof decodes the output of Proof.Marshal.
func DeserializeProof(data []byte) (*Proof, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("compose: %w: truncated sub-proof count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	subProofs := make([]SubProof, count)
	for i := range subProofs {
		var block []byte
		var err error
		block, data, err = readBlock(data)
		if err != nil {
			return nil, err
		}
		subProofs[i], _, err = unmarshalSubProof(block)
		if err != nil {
			return nil, err
		}
	}

	challenge, _, err := unmarshalScalar(data)
	if err != nil {
		return nil, err
	}

	return &Proof{SubProofs: subProofs, Challenge: challenge}, nil
}
