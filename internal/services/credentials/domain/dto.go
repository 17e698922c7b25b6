// Package domain holds the credential endpoint contracts
package domain

import "context"

// HashRequest asks for a fresh hash of Password; an empty password is hashed like any other
type HashRequest struct {
	Password *string `json:"password" validate:"required" example:"s3cret"`
}

// HashResponse carries the modular crypt string
type HashResponse struct {
	Hashed string `json:"hashed" example:"$scrypt$ln=16,r=8,p=1$c2FsdA$ZGlnZXN0"`
}

// VerifyRequest checks Password against a stored Hashed value
type VerifyRequest struct {
	Password *string `json:"password" validate:"required" example:"s3cret"`
	Hashed   *string `json:"hashed" validate:"required" example:"$scrypt$ln=16,r=8,p=1$c2FsdA$ZGlnZXN0"`
}

// VerifyResponse is false for a mismatch and for any malformed hash
type VerifyResponse struct {
	Valid bool `json:"valid"`
}

// HasherPort is the credential hasher; *credential.Hasher satisfies it
type HasherPort interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, candidate string) bool
	NeedsRehash(candidate string) bool
}

// ServicePort is what the transport calls
type ServicePort interface {
	Hash(ctx context.Context, in HashRequest) (HashResponse, error)
	Verify(ctx context.Context, in VerifyRequest) (VerifyResponse, error)
}
