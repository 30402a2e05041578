package compose

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
)

// StatementKind distinguishes the sub-protocol a Statement/Witness pair
// belongs to.
type StatementKind int

const (
	KindPedersen StatementKind = iota
	KindBBSPlus
)

// SetupParams holds the shared cryptographic material statements reference
// by index, so a ProofSpec spanning several statements that use the same
// BBS+ issuer key and parameters, or the same Pedersen commitment key, does
// not have to repeat them per statement.
type SetupParams struct {
	BBSParams     []*bbs.SignatureParams
	BBSPublicKeys []*bbs.PublicKey

	// PedersenCommitmentKeys holds shared base vectors a PedersenStatement
	// may reference by index instead of inlining its own Bases.
	PedersenCommitmentKeys [][]bls12381.G1Affine
}

// SetupRef points a BBSPlusStatement at the params/key pair it is proven
// against.
type SetupRef struct {
	ParamsIndex int
	KeyIndex    int
}

// Statement is the public half of a relation to be proven: everything a
// verifier needs except the witness.
type Statement interface {
	Kind() StatementKind
	// WitnessCount is the number of distinct witness slots this statement
	// exposes for WitnessRef/equality purposes.
	WitnessCount() int
}

// PedersenStatement is a Pedersen commitment C = prod(Bases[j]^w_j); its
// witness slots are indexed 0..len(Bases)-1, one per base.
//
// Bases may be given inline, or left nil with SetupIndex pointing at a
// shared base vector in ProofSpec.Setup.PedersenCommitmentKeys; Validate
// resolves a non-nil SetupIndex into Bases before Prove/Verify run, so both
// only ever see Bases populated.
type PedersenStatement struct {
	Bases      []bls12381.G1Affine
	C          bls12381.G1Affine
	SetupIndex *int
}

func (s *PedersenStatement) Kind() StatementKind { return KindPedersen }
func (s *PedersenStatement) WitnessCount() int    { return len(s.Bases) }

// BBSPlusStatement is "I know a valid BBS+ signature over messages, with
// Disclosed revealed as DisclosedMessages". Its witness slots follow
// bbs.WitnessSlotE/R2/R3/SPrime for slots 0..3, and bbs.MessageWitnessSlot(i)
// for every message index i, disclosed or not: disclosed slots carry no
// Schnorr response but remain valid WitnessRef targets so an equality class
// can span a disclosed message in one statement and a witness in another
// (checked against the claimed disclosed value — see isDisclosedRef).
type BBSPlusStatement struct {
	Setup             SetupRef
	Disclosed         map[int]bool
	DisclosedMessages bbs.MessageVector
	Header            []byte
	MessageSlotCount  int
}

func (s *BBSPlusStatement) Kind() StatementKind { return KindBBSPlus }

func (s *BBSPlusStatement) WitnessCount() int {
	return bbs.MessageWitnessSlot(s.MessageSlotCount) + 1
}

// Witness is the private half of a relation: what the prover knows.
type Witness interface {
	Kind() StatementKind
}

// PedersenWitness holds one opening per base of the matching PedersenStatement.
type PedersenWitness struct {
	Openings []*big.Int
}

func (w *PedersenWitness) Kind() StatementKind { return KindPedersen }

// BBSPlusWitness holds the signature and full message vector (disclosed and
// undisclosed) of the matching BBSPlusStatement.
type BBSPlusWitness struct {
	Signature *bbs.Signature
	Messages  bbs.MessageVector
}

func (w *BBSPlusWitness) Kind() StatementKind { return KindBBSPlus }

// WitnessRef addresses a single witness slot of a single statement.
type WitnessRef struct {
	StatementIndex int
	WitnessIndex   int
}

// MetaStatement declares that every WitnessRef in Refs must resolve to the
// same scalar. A disclosed BBS+ message slot keeps its witness index and may
// appear in an equality class: Prove and the verifier's equality check
// special-case it, comparing against the claimed disclosed value instead of
// a response.
type MetaStatement struct {
	Refs []WitnessRef
}

// ProofSpec names the statements to prove, the cross-statement equality
// constraints between their witnesses, and the setup parameters the
// statements reference.
type ProofSpec struct {
	Statements     []Statement
	MetaStatements []MetaStatement
	Setup          *SetupParams
	Context        []byte

	// equalityClasses is populated by Validate: the transitive closure of
	// MetaStatements' Refs, partitioned into disjoint equality classes.
	equalityClasses [][]WitnessRef
}

// SubProof is one statement's sub-proof within a composed Proof.
type SubProof struct {
	Kind     StatementKind
	Pedersen *PedersenSubProof
	BBSPlus  *bbs.ProofOfKnowledge
}

// PedersenSubProof wraps a Pedersen PoK's commitment and response.
type PedersenSubProof struct {
	T bls12381.G1Affine
	Z []*big.Int
}

// Proof is the composed proof across every statement in a ProofSpec.
type Proof struct {
	SubProofs []SubProof
	Challenge *big.Int
}
