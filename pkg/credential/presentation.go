package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cryptoutil/bbsplus/bbs"
)

// Presentation represents a selective disclosure presentation of a
// credential. AttributeNames mirrors the issuing Credential's full,
// canonical attribute name list (disclosed and undisclosed), which a
// verifier needs to reconstruct message-slot indices; Attributes holds only
// the subset the holder chose to disclose.
type Presentation struct {
	Schema         string            `json:"schema"`
	PublicKey      string            `json:"publicKey"`
	Proof          string            `json:"proof"`
	Attributes     map[string]string `json:"attributes"`
	AttributeNames []string          `json:"attributeNames"`
	Issuer         string            `json:"issuer"`
	Created        time.Time         `json:"created"`
	NonceUsed      string            `json:"nonceUsed,omitempty"`
}

// Verifier provides a fluent interface for verifying presentations.
type Verifier struct {
	presentation   *Presentation
	expectedIssuer string
	expectedSchema string
	nonce          string
}

func NewVerifier() *Verifier {
	return &Verifier{}
}

func (v *Verifier) SetPresentation(presentation *Presentation) *Verifier {
	v.presentation = presentation
	return v
}

func (v *Verifier) ExpectIssuer(issuer string) *Verifier {
	v.expectedIssuer = issuer
	return v
}

func (v *Verifier) ExpectSchema(schema string) *Verifier {
	v.expectedSchema = schema
	return v
}

func (v *Verifier) SetNonce(nonce string) *Verifier {
	v.nonce = nonce
	return v
}

// Verify checks if the presentation is valid: its proof of knowledge
// verifies against the disclosed attributes under the issuer's public key
// and the presentation's declared schema, and every fluent precondition set
// on the verifier (issuer, schema, nonce) is satisfied.
func (v *Verifier) Verify() error {
	if v.presentation == nil {
		return fmt.Errorf("credential: no presentation provided")
	}
	p := v.presentation

	if v.expectedIssuer != "" && p.Issuer != v.expectedIssuer {
		return fmt.Errorf("credential: unexpected issuer: expected %s, got %s", v.expectedIssuer, p.Issuer)
	}
	if v.expectedSchema != "" && p.Schema != v.expectedSchema {
		return fmt.Errorf("credential: unexpected schema: expected %s, got %s", v.expectedSchema, p.Schema)
	}
	if v.nonce != "" && p.NonceUsed != v.nonce {
		return fmt.Errorf("credential: incorrect nonce used in presentation")
	}

	params, err := schemaParams(p.Schema, len(p.AttributeNames))
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}

	pkBytes, err := base64.StdEncoding.DecodeString(p.PublicKey)
	if err != nil {
		return fmt.Errorf("credential: invalid public key encoding: %w", err)
	}
	pk, err := bbs.DeserializePublicKey(pkBytes)
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}

	proofBytes, err := base64.StdEncoding.DecodeString(p.Proof)
	if err != nil {
		return fmt.Errorf("credential: invalid proof encoding: %w", err)
	}
	proof, err := bbs.DeserializeProofOfKnowledge(proofBytes)
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}

	nameIndex := make(map[string]int, len(p.AttributeNames))
	for i, name := range p.AttributeNames {
		nameIndex[name] = i + 1
	}

	disclosed := make(map[int]bool, len(p.Attributes))
	disclosedMessages := make(bbs.MessageVector, len(p.Attributes))
	for name, value := range p.Attributes {
		idx, ok := nameIndex[name]
		if !ok {
			return fmt.Errorf("credential: disclosed attribute %q is not part of this credential's schema", name)
		}
		disclosed[idx] = true
		disclosedMessages[idx] = attributeToScalar(name, value)
	}

	header := []byte(p.Schema)
	if err := bbs.VerifyKnowledge(pk, params, proof, disclosedMessages, disclosed, header); err != nil {
		return fmt.Errorf("credential: BBS+ proof verification failed: %w", err)
	}
	return nil
}

func (p *Presentation) MarshalJSON() ([]byte, error) {
	type presentationExport struct {
		Schema         string            `json:"schema"`
		PublicKey      string            `json:"publicKey"`
		Proof          string            `json:"proof"`
		Attributes     map[string]string `json:"attributes"`
		AttributeNames []string          `json:"attributeNames"`
		Issuer         string            `json:"issuer"`
		Created        time.Time         `json:"created"`
		NonceUsed      string            `json:"nonceUsed,omitempty"`
	}
	return json.Marshal(presentationExport{
		Schema:         p.Schema,
		PublicKey:      p.PublicKey,
		Proof:          p.Proof,
		Attributes:     p.Attributes,
		AttributeNames: p.AttributeNames,
		Issuer:         p.Issuer,
		Created:        p.Created,
		NonceUsed:      p.NonceUsed,
	})
}

func (p *Presentation) UnmarshalJSON(data []byte) error {
	type presentationImport struct {
		Schema         string            `json:"schema"`
		PublicKey      string            `json:"publicKey"`
		Proof          string            `json:"proof"`
		Attributes     map[string]string `json:"attributes"`
		AttributeNames []string          `json:"attributeNames"`
		Issuer         string            `json:"issuer"`
		Created        time.Time         `json:"created"`
		NonceUsed      string            `json:"nonceUsed,omitempty"`
	}

	var temp presentationImport
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	p.Schema = temp.Schema
	p.PublicKey = temp.PublicKey
	p.Proof = temp.Proof
	p.Attributes = temp.Attributes
	p.AttributeNames = temp.AttributeNames
	p.Issuer = temp.Issuer
	p.Created = temp.Created
	p.NonceUsed = temp.NonceUsed
	return nil
}
