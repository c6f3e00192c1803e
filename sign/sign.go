// Package sign computes the per-build signature embedded in document metadata.
//
// The signature mixes a fresh nonce into every computation, so two builds with
// the same author, title and timestamp get different signatures. It
// fingerprints a build; it does not address content.
package sign

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeywordPrefix precedes the signature in the metadata keywords.
const KeywordPrefix = "Signature="

// TimestampLayout is the round-trippable timestamp format hashed into the
// signature.
const TimestampLayout = "2006-01-02T15:04:05.0000000Z07:00"

// Signer computes signatures. The zero value uses random UUIDs as nonces.
type Signer struct {
	// Nonce returns a fresh unique value per call. Nil means uuid.NewString.
	Nonce func() string
}

// Compute returns the uppercase hex SHA-256 of author, title, created and a
// fresh nonce joined by '|'.
func (s Signer) Compute(author, title string, created time.Time) string {
	nonce := s.Nonce
	if nonce == nil {
		nonce = uuid.NewString
	}
	raw := strings.Join([]string{
		author,
		title,
		created.Format(TimestampLayout),
		nonce(),
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Compute is Signer{}.Compute.
func Compute(author, title string, created time.Time) string {
	return Signer{}.Compute(author, title, created)
}

// Metadata describes a built document.
type Metadata struct {
	Author    string
	Title     string
	Subject   string
	Created   time.Time
	Signature string
	Keywords  string
}

// NewMetadata returns metadata with a freshly computed signature.
func (s Signer) NewMetadata(author, title, subject string, created time.Time) Metadata {
	sig := s.Compute(author, title, created)
	return Metadata{
		Author:    author,
		Title:     title,
		Subject:   subject,
		Created:   created,
		Signature: sig,
		Keywords:  KeywordPrefix + sig,
	}
}

// NewMetadata is Signer{}.NewMetadata.
func NewMetadata(author, title, subject string, created time.Time) Metadata {
	return Signer{}.NewMetadata(author, title, subject, created)
}
