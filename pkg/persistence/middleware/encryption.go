package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/scenesmith/scenesmith/pkg/domain"
	"github.com/scenesmith/scenesmith/pkg/ports"
)

// envelopeKey marks a stored document as an encryption envelope.
const envelopeKey = "__encrypted__"

// ErrNotEncrypted is returned when a loaded document carries no
// ciphertext envelope. Plaintext documents are never passed through.
var ErrNotEncrypted = errors.New("stored project is not an encryption envelope")

// EncryptionConfig carries the cipher keys.
type EncryptionConfig struct {
	// ActiveKey encrypts new documents. Must be 32 bytes (AES-256).
	ActiveKey []byte

	// FallbackKeys are tried in order when decryption with the active
	// key fails, enabling key rotation without re-encrypting every
	// project up front.
	FallbackKeys [][]byte
}

type encryption struct {
	next   ports.ProjectStore
	config EncryptionConfig
}

// NewEncryption encrypts document bodies with a single AES-256-GCM key.
// Panics when the key is not 32 bytes.
func NewEncryption(key []byte) Middleware {
	return NewEncryptionWithRotation(EncryptionConfig{ActiveKey: key})
}

// NewEncryptionWithRotation is NewEncryption plus fallback keys for
// rotation.
func NewEncryptionWithRotation(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("encryption middleware: active key must be 32 bytes (AES-256)")
	}
	return func(next ports.ProjectStore) ports.ProjectStore {
		return &encryption{next: next, config: config}
	}
}

// Save seals the whole document and stores an envelope that keeps only
// the name and version in plaintext, so store indexes and List keep
// working while entity data stays opaque.
func (m *encryption) Save(ctx context.Context, project *domain.Project) error {
	if project == nil {
		return fmt.Errorf("encryption middleware: nil project")
	}

	plaintext, err := json.Marshal(project)
	if err != nil {
		return fmt.Errorf("encryption middleware: marshal project: %w", err)
	}

	ciphertext, err := seal(plaintext, m.config.ActiveKey)
	if err != nil {
		return fmt.Errorf("encryption middleware: encrypt project: %w", err)
	}

	envelope := domain.NewProject(project.Name)
	envelope.Environment = map[string]any{
		envelopeKey: base64.StdEncoding.EncodeToString(ciphertext),
	}
	return m.next.Save(ctx, envelope)
}

// Load opens the envelope, trying the active key and then each fallback.
func (m *encryption) Load(ctx context.Context, name string) (*domain.Project, error) {
	envelope, err := m.next.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	encoded, ok := envelope.Environment[envelopeKey].(string)
	if !ok {
		return nil, fmt.Errorf("project %q: %w", name, ErrNotEncrypted)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("encryption middleware: decode envelope: %w", err)
	}

	plaintext, err := m.open(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("encryption middleware: decrypt project %q: %w", name, err)
	}

	var project domain.Project
	if err := json.Unmarshal(plaintext, &project); err != nil {
		return nil, fmt.Errorf("encryption middleware: decode project: %w", err)
	}
	return &project, nil
}

func (m *encryption) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *encryption) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

// open tries the active key first, then each fallback key in order.
func (m *encryption) open(ciphertext []byte) ([]byte, error) {
	if plain, err := unseal(ciphertext, m.config.ActiveKey); err == nil {
		return plain, nil
	}
	for _, key := range m.config.FallbackKeys {
		if plain, err := unseal(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("no configured key opens this document")
}

// seal prepends the random nonce to the GCM ciphertext.
func seal(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func unseal(ciphertext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	nonce, body := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}
