package signature

// SecretVerifier binds Verify to a process-wide secret.
type SecretVerifier struct {
	secret string
}

func NewVerifier(secret string) *SecretVerifier {
	return &SecretVerifier{secret: secret}
}

func (v *SecretVerifier) Verify(pathAndQuery, signature string) error {
	return Verify(v.secret, pathAndQuery, signature)
}
