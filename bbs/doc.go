// Package bbs implements the BBS+ multi-message signature scheme over the
// BLS12-381 pairing-friendly curve: signature parameter generation, key
// generation, signing (including blind signing over a hidden commitment),
// verification, and the zero-knowledge signature proof of knowledge that
// lets a holder selectively disclose a subset of signed messages.
//
// A typical flow:
//
//	params, _ := bbs.NewSignatureParamsDeterministic("example", 4)
//	sk, _ := bbs.SecretKeyFromRandom(rand.Reader)
//	pk := bbs.PublicKeyFromSecret(sk, params)
//	sig, _ := bbs.Sign(sk, params, messages, rand.Reader)
//	err := bbs.Verify(pk, params, sig, messages)
//
// Only SecretKey carries sensitive state that needs explicit destruction;
// SignatureParams, PublicKey, and Signature are ordinary immutable values.
package bbs
