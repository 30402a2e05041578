// Package pedersen implements a Pedersen commitment and its standard
// multi-base Schnorr proof of knowledge: a commitment
// C = prod(bases[j]^openings[j]) together with a proof that the prover
// knows every opening, with per-base responses exposed so the composition
// engine can enforce witness equality across statements.
package pedersen
