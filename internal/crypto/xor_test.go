package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXORDecryptor_RoundTrip(t *testing.T) {
	d := XORDecryptor{}
	plaintext := []byte("date,amount,description\n2024-01-05,-42.50,Netflix\n")

	ciphertext := d.Encrypt(plaintext, "s3cr3t")
	require.NotEqual(t, plaintext, ciphertext)

	got, err := d.Decrypt(ciphertext, "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestXORDecryptor_WrongKey(t *testing.T) {
	d := XORDecryptor{}
	// High-bit-heavy plaintext ensures a wrong key produces invalid UTF-8
	// rather than accidentally decoding.
	plaintext := []byte("däté,amöunt,déscription\n2024-01-05,-42.50,Café\n")
	ciphertext := d.Encrypt(plaintext, "right-key")

	_, err := d.Decrypt(ciphertext, "wrong-key")
	require.Error(t, err)

	var decErr *DecryptionError
	assert.True(t, errors.As(err, &decErr))
}

func TestXORDecryptor_EmptyInputs(t *testing.T) {
	d := XORDecryptor{}

	_, err := d.Decrypt([]byte("data"), "")
	assert.Error(t, err)

	_, err = d.Decrypt(nil, "key")
	assert.Error(t, err)
}

func TestXORDecryptor_IsPure(t *testing.T) {
	d := XORDecryptor{}
	ciphertext := d.Encrypt([]byte("hello world"), "k")

	first, err := d.Decrypt(ciphertext, "k")
	require.NoError(t, err)
	second, err := d.Decrypt(ciphertext, "k")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Input must be untouched.
	assert.Equal(t, d.Encrypt([]byte("hello world"), "k"), ciphertext)
}
