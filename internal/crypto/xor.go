package crypto

import "unicode/utf8"

// XORDecryptor implements Decryptor with a repeating-key XOR transform.
//
// XOR with any key always yields some output, so the transform alone cannot
// tell a wrong key from the right one. Statement blobs are UTF-8 tabular text,
// so the decryptor validates that the plaintext decodes as UTF-8 and treats
// anything else as a wrong key or corrupted ciphertext.
type XORDecryptor struct{}

var _ Decryptor = XORDecryptor{}

func (XORDecryptor) Decrypt(ciphertext []byte, key string) ([]byte, error) {
	if key == "" {
		return nil, &DecryptionError{Reason: "empty key"}
	}
	if len(ciphertext) == 0 {
		return nil, &DecryptionError{Reason: "empty ciphertext"}
	}

	plaintext := make([]byte, len(ciphertext))
	for i, b := range ciphertext {
		plaintext[i] = b ^ key[i%len(key)]
	}

	if !utf8.Valid(plaintext) {
		return nil, &DecryptionError{Reason: "plaintext is not valid UTF-8 (wrong key or corrupted ciphertext)"}
	}
	return plaintext, nil
}

// Encrypt applies the same transform in the opposite direction. XOR is its own
// inverse, so this exists for tests and tooling that need to produce
// ciphertext a XORDecryptor will accept.
func (XORDecryptor) Encrypt(plaintext []byte, key string) []byte {
	if key == "" {
		return append([]byte(nil), plaintext...)
	}
	ciphertext := make([]byte, len(plaintext))
	for i, b := range plaintext {
		ciphertext[i] = b ^ key[i%len(key)]
	}
	return ciphertext
}
