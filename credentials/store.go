// Package credentials stores the portal username and password encrypted on
// disk, so a run never needs them on the command line.
package credentials

import (
	"bufio"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/term"
)

const (
	credentialsFile = ".credentials"
	keyFile         = ".key"
)

// Store manages one encrypted credential pair under dir.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir ("." matches the historical
// behavior of keeping the files next to the tool).
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

type credentialPair struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Store) credentialsPath() string { return filepath.Join(s.dir, credentialsFile) }
func (s *Store) keyPath() string         { return filepath.Join(s.dir, keyFile) }

// Has reports whether credentials have been saved.
func (s *Store) Has() bool {
	_, err := os.Stat(s.credentialsPath())
	return err == nil
}

// key loads the encryption key, generating one on first use. The key file
// is only ever readable by the owner.
func (s *Store) key() ([]byte, error) {
	if key, err := os.ReadFile(s.keyPath()); err == nil {
		if len(key) != chacha20poly1305.KeySize {
			return nil, fmt.Errorf("key file is corrupt (%d bytes)", len(key))
		}
		return key, nil
	}

	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %v", err)
	}
	if err := os.WriteFile(s.keyPath(), key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %v", err)
	}
	return key, nil
}

// Save encrypts and stores the credential pair.
func (s *Store) Save(username, password string) error {
	key, err := s.key()
	if err != nil {
		return err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(credentialPair{Username: username, Password: password})
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %v", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	if err := os.WriteFile(s.credentialsPath(), sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials: %v", err)
	}
	return nil
}

// Load decrypts and returns the stored credential pair.
func (s *Store) Load() (username, password string, err error) {
	key, err := s.key()
	if err != nil {
		return "", "", err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", "", err
	}

	sealed, err := os.ReadFile(s.credentialsPath())
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials: %v", err)
	}
	if len(sealed) < aead.NonceSize() {
		return "", "", fmt.Errorf("credentials file is corrupt")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to decrypt credentials: %v", err)
	}

	var pair credentialPair
	if err := json.Unmarshal(plaintext, &pair); err != nil {
		return "", "", err
	}
	return pair.Username, pair.Password, nil
}

// Delete removes the stored credentials and the key.
func (s *Store) Delete() error {
	for _, path := range []string{s.credentialsPath(), s.keyPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Prompt interactively asks for a credential pair with hidden password
// input.
func Prompt() (username, password string, err error) {
	fmt.Println("\nGOP Data Center credentials not found.")
	fmt.Println("Please enter your credentials (they will be encrypted and saved locally)")

	fmt.Print("Username: ")
	reader := bufio.NewReader(os.Stdin)
	username, err = reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", err
	}
	return username, string(raw), nil
}
