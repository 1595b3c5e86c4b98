// Package crypto provides the decryption capability used by the worker
// pipeline. The capability is a pure transformation: no state, no side
// effects, safe to call concurrently from any worker.
package crypto

import "fmt"

// DecryptionError reports a failed decryption (malformed ciphertext or wrong
// key). The message never includes key material.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return fmt.Sprintf("decryption failed: %s", e.Reason)
}

// Decryptor transforms ciphertext plus key material into plaintext. A failure
// is always a *DecryptionError.
type Decryptor interface {
	Decrypt(ciphertext []byte, key string) ([]byte, error)
}
