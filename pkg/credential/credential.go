package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
)

// IssuerKey is a credential issuer's BBS+ signing key.
type IssuerKey struct {
	secretKey *bbs.SecretKey
}

// NewIssuerKey draws a fresh issuer signing key from rng, or crypto/rand if nil.
func NewIssuerKey(rng io.Reader) (*IssuerKey, error) {
	if rng == nil {
		rng = rand.Reader
	}
	sk, err := bbs.SecretKeyFromRandom(rng)
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}
	return &IssuerKey{secretKey: sk}, nil
}

// Destroy zeroizes the issuer's signing key.
func (k *IssuerKey) Destroy() { k.secretKey.Destroy() }

// schemaParams derives SignatureParams deterministically from a credential
// schema name and attribute count: any two parties that agree on the schema
// agree on the same parameters without an out-of-band exchange, the same way
// bbs.NewSignatureParamsDeterministic is meant to be used.
func schemaParams(schema string, attrCount int) (*bbs.SignatureParams, error) {
	return bbs.NewSignatureParamsDeterministic("credential-schema:"+schema, attrCount)
}

// attributeToScalar maps an attribute name/value pair to a field element via
// SHA-256, so arbitrary attribute bytes (which may exceed the BLS12-381
// scalar field order) always map to a valid, size-bounded scalar. Hashing in
// the name binds the value to its slot, so swapping two attributes' values
// between slots cannot forge a valid reuse of the other's proof term.
func attributeToScalar(name, value string) *big.Int {
	h := sha256.Sum256([]byte(name + "\x00" + value))
	s := new(big.Int).SetBytes(h[:])
	return s.Mod(s, common.Order)
}

// Credential represents a BBS+ credential with attributes. AttributeNames is
// the canonical, sorted list of every attribute name this credential's
// signature was issued over — public schema metadata a verifier needs to
// reconstruct message-slot indices even for attributes a given presentation
// chooses not to disclose.
type Credential struct {
	Schema         string            `json:"schema"`
	PublicKey      string            `json:"publicKey"`
	Signature      string            `json:"signature"`
	Attributes     map[string]string `json:"attributes"`
	AttributeNames []string          `json:"attributeNames"`
	Issuer         string            `json:"issuer"`
	IssuanceDate   time.Time         `json:"issuanceDate"`
	ExpirationDate *time.Time        `json:"expirationDate,omitempty"`
}

// Builder provides a fluent interface for creating credentials.
type Builder struct {
	credential Credential
}

// NewBuilder creates a new credential builder.
func NewBuilder() *Builder {
	return &Builder{
		credential: Credential{
			Attributes: make(map[string]string),
		},
	}
}

func (b *Builder) SetSchema(schema string) *Builder {
	b.credential.Schema = schema
	return b
}

func (b *Builder) SetIssuer(issuer string) *Builder {
	b.credential.Issuer = issuer
	return b
}

func (b *Builder) SetExpirationDate(expiration time.Time) *Builder {
	b.credential.ExpirationDate = &expiration
	return b
}

func (b *Builder) AddAttribute(name, value string) *Builder {
	b.credential.Attributes[name] = value
	return b
}

// sortedAttrNames returns the credential's attribute names in a fixed,
// deterministic order (lexicographic), which fixes the message-slot
// assignment; the resulting order is kept in Credential.AttributeNames.
func sortedAttrNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func messageVectorFor(attrs map[string]string, names []string) bbs.MessageVector {
	mv := make(bbs.MessageVector, len(names))
	for i, name := range names {
		mv[i+1] = attributeToScalar(name, attrs[name])
	}
	return mv
}

// Issue signs the credential with the issuer's key.
func (b *Builder) Issue(issuer *IssuerKey) (*Credential, error) {
	if issuer == nil {
		return nil, fmt.Errorf("credential: %w", common.ErrInvalidParameter)
	}
	if b.credential.Schema == "" {
		return nil, fmt.Errorf("credential: schema must be set before issuing")
	}

	names := sortedAttrNames(b.credential.Attributes)
	params, err := schemaParams(b.credential.Schema, len(names))
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}
	pk := bbs.PublicKeyFromSecret(issuer.secretKey, params)
	messages := messageVectorFor(b.credential.Attributes, names)

	sig, err := bbs.Sign(issuer.secretKey, params, messages, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("credential: failed to sign credential: %w", err)
	}

	b.credential.AttributeNames = names
	b.credential.PublicKey = base64.StdEncoding.EncodeToString(pk.Marshal())
	b.credential.Signature = base64.StdEncoding.EncodeToString(sig.Marshal())
	b.credential.IssuanceDate = time.Now()

	out := b.credential
	return &out, nil
}

// Verify checks if the credential's signature is valid and it has not expired.
func (c *Credential) Verify() error {
	names := c.AttributeNames
	params, err := schemaParams(c.Schema, len(names))
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}

	pkBytes, err := base64.StdEncoding.DecodeString(c.PublicKey)
	if err != nil {
		return fmt.Errorf("credential: invalid public key encoding: %w", err)
	}
	pk, err := bbs.DeserializePublicKey(pkBytes)
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}

	sigBytes, err := base64.StdEncoding.DecodeString(c.Signature)
	if err != nil {
		return fmt.Errorf("credential: invalid signature encoding: %w", err)
	}
	sig, err := bbs.DeserializeSignature(sigBytes)
	if err != nil {
		return fmt.Errorf("credential: %w", err)
	}

	messages := messageVectorFor(c.Attributes, names)
	if err := bbs.Verify(pk, params, sig, messages); err != nil {
		return fmt.Errorf("credential: invalid credential: %w", err)
	}

	if c.ExpirationDate != nil && time.Now().After(*c.ExpirationDate) {
		return fmt.Errorf("credential: credential has expired")
	}
	return nil
}

// CreatePresentation creates a selective disclosure presentation revealing
// only disclosedAttrs.
func (c *Credential) CreatePresentation(disclosedAttrs []string) (*Presentation, error) {
	names := c.AttributeNames
	nameIndex := make(map[string]int, len(names))
	for i, name := range names {
		nameIndex[name] = i + 1
	}

	disclosed := make(map[int]bool, len(disclosedAttrs))
	for _, attr := range disclosedAttrs {
		idx, ok := nameIndex[attr]
		if !ok {
			return nil, fmt.Errorf("credential: attribute %q not found in credential", attr)
		}
		disclosed[idx] = true
	}

	params, err := schemaParams(c.Schema, len(names))
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}
	pkBytes, err := base64.StdEncoding.DecodeString(c.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("credential: invalid public key encoding: %w", err)
	}
	pk, err := bbs.DeserializePublicKey(pkBytes)
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}
	sigBytes, err := base64.StdEncoding.DecodeString(c.Signature)
	if err != nil {
		return nil, fmt.Errorf("credential: invalid signature encoding: %w", err)
	}
	sig, err := bbs.DeserializeSignature(sigBytes)
	if err != nil {
		return nil, fmt.Errorf("credential: %w", err)
	}

	messages := messageVectorFor(c.Attributes, names)
	header := []byte(c.Schema)
	pok, err := bbs.ProveKnowledge(pk, params, sig, messages, disclosed, nil, header, bbs.NewRNG(rand.Reader))
	if err != nil {
		return nil, fmt.Errorf("credential: failed to create proof: %w", err)
	}

	presentation := &Presentation{
		Schema:         c.Schema,
		PublicKey:      c.PublicKey,
		Proof:          base64.StdEncoding.EncodeToString(pok.Marshal()),
		Attributes:     make(map[string]string, len(disclosedAttrs)),
		AttributeNames: append([]string(nil), names...),
		Issuer:         c.Issuer,
		Created:        time.Now(),
	}
	for _, attr := range disclosedAttrs {
		presentation.Attributes[attr] = c.Attributes[attr]
	}
	return presentation, nil
}

func (c *Credential) MarshalJSON() ([]byte, error) {
	type credentialExport struct {
		Schema         string            `json:"schema"`
		PublicKey      string            `json:"publicKey"`
		Signature      string            `json:"signature"`
		Attributes     map[string]string `json:"attributes"`
		AttributeNames []string          `json:"attributeNames"`
		Issuer         string            `json:"issuer"`
		IssuanceDate   time.Time         `json:"issuanceDate"`
		ExpirationDate *time.Time        `json:"expirationDate,omitempty"`
	}
	return json.Marshal(credentialExport{
		Schema:         c.Schema,
		PublicKey:      c.PublicKey,
		Signature:      c.Signature,
		Attributes:     c.Attributes,
		AttributeNames: c.AttributeNames,
		Issuer:         c.Issuer,
		IssuanceDate:   c.IssuanceDate,
		ExpirationDate: c.ExpirationDate,
	})
}

func (c *Credential) UnmarshalJSON(data []byte) error {
	type credentialImport struct {
		Schema         string            `json:"schema"`
		PublicKey      string            `json:"publicKey"`
		Signature      string            `json:"signature"`
		Attributes     map[string]string `json:"attributes"`
		AttributeNames []string          `json:"attributeNames"`
		Issuer         string            `json:"issuer"`
		IssuanceDate   time.Time         `json:"issuanceDate"`
		ExpirationDate *time.Time        `json:"expirationDate,omitempty"`
	}

	var temp credentialImport
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	c.Schema = temp.Schema
	c.PublicKey = temp.PublicKey
	c.Signature = temp.Signature
	c.Attributes = temp.Attributes
	c.AttributeNames = temp.AttributeNames
	c.Issuer = temp.Issuer
	c.IssuanceDate = temp.IssuanceDate
	c.ExpirationDate = temp.ExpirationDate
	return nil
}
