package types

// SecretString holds a sensitive value (connection strings, API keys) and
// redacts itself in every textual representation. The raw value must be
// obtained explicitly via Reveal, which keeps accidental logging of secrets
// greppable in review.
type SecretString string

const redactedPlaceholder = "[REDACTED]"

// String implements fmt.Stringer and always returns the redacted placeholder.
func (s SecretString) String() string {
	if s == "" {
		return ""
	}
	return redactedPlaceholder
}

// GoString prevents %#v from leaking the raw value.
func (s SecretString) GoString() string {
	return s.String()
}

// MarshalJSON redacts the value in JSON output.
func (s SecretString) MarshalJSON() ([]byte, error) {
	if s == "" {
		return []byte(`""`), nil
	}
	return []byte(`"` + redactedPlaceholder + `"`), nil
}

// Reveal returns the raw secret value.
func (s SecretString) Reveal() string {
	return string(s)
}

// IsEmpty reports whether the secret is unset.
func (s SecretString) IsEmpty() bool {
	return s == ""
}
