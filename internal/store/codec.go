// Package store holds the document encoding shared by the persistent
// PersistAdapter implementations. Documents are stored as xz-compressed JSON
// together with a BLAKE3 fingerprint of the uncompressed JSON, so an upsert
// of an unchanged document can be detected without decompressing. The
// fingerprint leaves out the creation and modification timestamps, which a
// parser stamps afresh on every import.
package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Kinds of stored documents.
const (
	KindBible = "bible"
	KindSong  = "song"
)

// volatileKeys are the top-level JSON fields left out of a fingerprint.
var volatileKeys = []string{"created_date", "modified_date"}

// Encoded is a document ready to be written.
type Encoded struct {
	ID          string
	Body        []byte
	Fingerprint string
}

// Fingerprint returns the hex BLAKE3 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Encode serializes doc to JSON, fingerprints it and compresses it with xz.
func Encode(id string, doc any) (*Encoded, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", id, err)
	}

	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("create xz writer: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return nil, fmt.Errorf("compress %s: %w", id, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress %s: %w", id, err)
	}

	fp, err := contentFingerprint(raw)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", id, err)
	}
	return &Encoded{ID: id, Body: buf.Bytes(), Fingerprint: fp}, nil
}

// Decode reverses Encode into doc, which must be a pointer.
func Decode(body []byte, doc any) error {
	r, err := xz.NewReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create xz reader: %w", err)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("decompress: %w", err)
	}
	if err := json.Unmarshal(raw, doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// FingerprintOf returns the fingerprint Encode would give doc.
func FingerprintOf(doc any) (string, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return contentFingerprint(raw)
}

// contentFingerprint fingerprints raw JSON without its volatile fields.
// Object keys are re-marshalled in sorted order.
func contentFingerprint(raw []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Fingerprint(raw), nil
	}
	for _, k := range volatileKeys {
		delete(fields, k)
	}
	stable, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return Fingerprint(stable), nil
}
