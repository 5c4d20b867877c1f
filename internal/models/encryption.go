package models

// Encryption parameters for secrets stored at rest.
const (
	NonceSize  = 12
	KeySize    = 32
	Iterations = 100000
)
