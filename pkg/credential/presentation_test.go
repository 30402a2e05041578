package credential

import "testing"

func TestVerifierAcceptsValidPresentation(t *testing.T) {
	issuerKey, cred := issueTestCredential(t)
	defer issuerKey.Destroy()

	presentation, err := cred.CreatePresentation([]string{"name", "address"})
	if err != nil {
		t.Fatalf("CreatePresentation: %v", err)
	}

	err = NewVerifier().
		SetPresentation(presentation).
		ExpectIssuer("https://example.com/issuers/dmv").
		ExpectSchema("https://example.com/schemas/identity").
		Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifierRejectsWrongIssuer(t *testing.T) {
	issuerKey, cred := issueTestCredential(t)
	defer issuerKey.Destroy()

	presentation, err := cred.CreatePresentation([]string{"name"})
	if err != nil {
		t.Fatalf("CreatePresentation: %v", err)
	}

	err = NewVerifier().
		SetPresentation(presentation).
		ExpectIssuer("https://example.com/issuers/someone-else").
		Verify()
	if err == nil {
		t.Fatal("Verify succeeded with an unexpected issuer, want error")
	}
}

func TestVerifierRejectsTamperedDisclosedAttribute(t *testing.T) {
	issuerKey, cred := issueTestCredential(t)
	defer issuerKey.Destroy()

	presentation, err := cred.CreatePresentation([]string{"name"})
	if err != nil {
		t.Fatalf("CreatePresentation: %v", err)
	}
	presentation.Attributes["name"] = "Someone Else"

	if err := NewVerifier().SetPresentation(presentation).Verify(); err == nil {
		t.Fatal("Verify succeeded on a tampered disclosed attribute, want error")
	}
}

func TestVerifierRejectsNonceMismatch(t *testing.T) {
	issuerKey, cred := issueTestCredential(t)
	defer issuerKey.Destroy()

	presentation, err := cred.CreatePresentation([]string{"name"})
	if err != nil {
		t.Fatalf("CreatePresentation: %v", err)
	}
	presentation.NonceUsed = "actual-nonce"

	err = NewVerifier().
		SetPresentation(presentation).
		SetNonce("expected-nonce").
		Verify()
	if err == nil {
		t.Fatal("Verify succeeded with a mismatched nonce, want error")
	}
}

func TestPresentationMarshalUnmarshalRoundTrip(t *testing.T) {
	issuerKey, cred := issueTestCredential(t)
	defer issuerKey.Destroy()

	presentation, err := cred.CreatePresentation([]string{"name"})
	if err != nil {
		t.Fatalf("CreatePresentation: %v", err)
	}

	data, err := presentation.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var decoded Presentation
	if err := decoded.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if err := NewVerifier().SetPresentation(&decoded).Verify(); err != nil {
		t.Fatalf("Verify after round trip: %v", err)
	}
}
