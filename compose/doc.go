// Package compose implements a composition engine: a
// single zero-knowledge proof spanning any number of BBS+ signature proofs
// and Pedersen commitment proofs, with witness-equality constraints enforced
// across statements (including across statement kinds) and a single
// Fiat-Shamir challenge shared by every sub-proof.
//
// A ProofSpec names the statements to prove, the equality constraints
// between their witnesses, and the setup parameters those statements
// reference; Prove and Verify run the linear commit/challenge/respond state
// machines.
package compose
