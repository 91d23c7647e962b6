package backup

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("conteúdo do banco de dados")

	encrypted, err := Encrypt(plaintext, "senha-forte")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(encrypted, plaintext) {
		t.Fatal("ciphertext contains plaintext")
	}
	if len(encrypted) < saltSize+nonceSize {
		t.Fatalf("encrypted output too small: %d bytes", len(encrypted))
	}

	decrypted, err := Decrypt(encrypted, "senha-forte")
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: %q", decrypted)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	encrypted, err := Encrypt([]byte("dados"), "senha-certa")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := Decrypt(encrypted, "senha-errada"); err == nil {
		t.Error("expected authentication failure with wrong passphrase")
	}
}

func TestDecryptTruncated(t *testing.T) {
	if _, err := Decrypt([]byte("curto"), "senha"); err == nil {
		t.Error("expected error for truncated input")
	}
}

func TestEncryptUniqueSalts(t *testing.T) {
	a, _ := Encrypt([]byte("dados"), "senha")
	b, _ := Encrypt([]byte("dados"), "senha")
	if bytes.Equal(a[:saltSize], b[:saltSize]) {
		t.Error("expected a fresh salt per encryption")
	}
	if bytes.Equal(a, b) {
		t.Error("expected distinct ciphertexts")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	k1 := DeriveKey("senha", salt)
	k2 := DeriveKey("senha", salt)
	if !bytes.Equal(k1, k2) {
		t.Error("same passphrase and salt must derive the same key")
	}
	if len(k1) != keySize {
		t.Errorf("key length = %d, want %d", len(k1), keySize)
	}
	if bytes.Equal(k1, DeriveKey("outra", salt)) {
		t.Error("different passphrases must derive different keys")
	}
}
