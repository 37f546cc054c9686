// Package keystore implements the durable backends of the credential store:
// a passphrase-sealed file, a sqlite record and a redis record.
package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/cinepass/internal/client/tokens"
	"github.com/dmitrijs2005/cinepass/internal/common"
	"github.com/dmitrijs2005/cinepass/internal/cryptox"
	"github.com/dmitrijs2005/cinepass/internal/filex"
)

const sealedVersion = 1

// sealedRecord is the on-disk layout of the secure file.
type sealedRecord struct {
	Version int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

// SecureFile keeps the pair sealed with AES-GCM under a key derived from a
// passphrase. Without a passphrase it reports tokens.ErrUnavailable.
type SecureFile struct {
	path       string
	passphrase []byte
}

var _ tokens.Backend = (*SecureFile)(nil)

// NewSecureFile stores the record for service as <dir>/<service>.sealed.
func NewSecureFile(dir, service string, passphrase []byte) *SecureFile {
	return &SecureFile{
		path:       filepath.Join(dir, service+".sealed"),
		passphrase: passphrase,
	}
}

func (s *SecureFile) Name() string { return "secure-file" }

func (s *SecureFile) Path() string { return s.path }

func (s *SecureFile) Read(ctx context.Context) (*tokens.Pair, error) {
	if len(s.passphrase) == 0 {
		return nil, tokens.ErrUnavailable
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var rec sealedRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if rec.Version != sealedVersion {
		return nil, fmt.Errorf("unsupported sealed record version %d", rec.Version)
	}

	key, err := cryptox.DeriveKey(s.passphrase, rec.Salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	var p tokens.Pair
	if err := cryptox.OpenJSON(rec.Data, rec.Nonce, key, &p); err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	return &p, nil
}

func (s *SecureFile) Write(ctx context.Context, p tokens.Pair) error {
	if len(s.passphrase) == 0 {
		return tokens.ErrUnavailable
	}

	if _, err := filex.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return err
	}
	key, err := cryptox.DeriveKey(s.passphrase, salt)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	data, nonce, err := cryptox.SealJSON(p, key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(sealedRecord{Version: sealedVersion, Salt: salt, Nonce: nonce, Data: data})
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path, raw, 0o600)
}

// Erase removes the file. It works without a passphrase so a record sealed
// under a forgotten passphrase can still be dropped.
func (s *SecureFile) Erase(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}
