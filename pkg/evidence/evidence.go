// Package evidence implements the append-only, hash-chained audit log
// (EvidencePack) that the orchestrator attaches to every session.
package evidence

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// Kind enumerates the evidence-entry categories named in the data model.
type Kind string

const (
	KindInput    Kind = "input"
	KindDecision Kind = "decision"
	KindToolCall Kind = "tool_call"
	KindSource   Kind = "source"
	KindOutput   Kind = "output"
	KindError    Kind = "error"
)

// ErrIntegrityViolation is the invariant-violation class named in spec §7:
// it is raised (panicked), never returned. Add panics with it only when an
// entry's hash cannot be computed; Add does not re-check the existing chain.
var ErrIntegrityViolation = errors.New("evidence: hash chain invariant violated")

// Entry is a single immutable, hash-chained record.
type Entry struct {
	EntryID   string                 `json:"entry_id"`
	Timestamp time.Time              `json:"timestamp"`
	Phase     string                 `json:"phase"`
	Kind      Kind                   `json:"kind"`
	Data      map[string]interface{} `json:"data"`
	PrevHash  string                 `json:"prev_hash"`
	EntryHash string                 `json:"entry_hash"`
	Signature string                 `json:"signature,omitempty"`
}

// hashableFields is the exact field set canonicalized into entry_hash, per
// spec §3: {timestamp, phase, kind, data, prev_hash}. entry_id and the hash
// itself are excluded so the hash is reproducible from the entry's logical
// content alone.
type hashableFields struct {
	Timestamp string                 `json:"timestamp"`
	Phase     string                 `json:"phase"`
	Kind      Kind                   `json:"kind"`
	Data      map[string]interface{} `json:"data"`
	PrevHash  string                 `json:"prev_hash"`
}

func computeEntryHash(e Entry) (string, error) {
	fields := hashableFields{
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339Nano),
		Phase:     e.Phase,
		Kind:      e.Kind,
		Data:      e.Data,
		PrevHash:  e.PrevHash,
	}
	canon, err := canonicalJSON(fields)
	if err != nil {
		return "", fmt.Errorf("evidence: canonicalize entry: %w", err)
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// Pack is the per-session tamper-evident audit log.
type Pack struct {
	mu sync.Mutex

	SessionID       string    `json:"session_id"`
	Entries         []Entry   `json:"entries"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time,omitempty"`
	ModelID         string    `json:"model_id,omitempty"`
	SignerPublicKey string    `json:"signer_public_key,omitempty"`
	MerkleRoot      string    `json:"merkle_root,omitempty"`

	signer ed25519.PrivateKey
}

// NewPack creates an empty pack for sessionID.
func NewPack(sessionID string) *Pack {
	return &Pack{
		SessionID: sessionID,
		StartTime: time.Now().UTC(),
	}
}

// NewSessionID generates a short opaque session identifier, matching the
// original's uuid4().hex[:12] convention.
func NewSessionID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:12]
}

// WithSigner attaches an ed25519 private key used to sign every subsequently
// appended entry. Signing is at-rest tamper detection, not transport
// security, per spec §1's non-goals.
func (p *Pack) WithSigner(priv ed25519.PrivateKey) *Pack {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signer = priv
	pub, ok := priv.Public().(ed25519.PublicKey)
	if ok {
		p.SignerPublicKey = hex.EncodeToString(pub)
	}
	return p
}

// Add appends a new entry under the given phase/kind, computing its
// prev_hash from the last entry (empty string for the first entry) and its
// entry_hash over the canonical encoding of the hashable fields. If a signer
// is attached, the entry is also signed via JWS (EdDSA) over entry_hash.
func (p *Pack) Add(phase string, kind Kind, data map[string]interface{}) Entry {
	p.mu.Lock()
	defer p.mu.Unlock()

	prevHash := ""
	if n := len(p.Entries); n > 0 {
		prevHash = p.Entries[n-1].EntryHash
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	entry := Entry{
		EntryID:   timeSortableID(),
		Timestamp: time.Now().UTC(),
		Phase:     phase,
		Kind:      kind,
		Data:      data,
		PrevHash:  prevHash,
	}

	hash, err := computeEntryHash(entry)
	if err != nil {
		// Hashing a canonicalizable struct cannot fail in practice; treat
		// failure as the invariant-violation class rather than swallowing it.
		panic(fmt.Errorf("%w: %v", ErrIntegrityViolation, err))
	}
	entry.EntryHash = hash

	if p.signer != nil {
		sig, err := jws.Sign([]byte(hash), jws.WithKey(jwa.EdDSA, p.signer))
		if err != nil {
			slog.Error("evidence: sign entry failed", "session_id", p.SessionID, "error", err)
		} else {
			entry.Signature = hex.EncodeToString(sig)
		}
	}

	p.Entries = append(p.Entries, entry)
	return entry
}

func timeSortableID() string {
	return fmt.Sprintf("%016x-%s", time.Now().UnixNano(), uuid.New().String()[:8])
}

// Verify recomputes and checks every hash-chain link and entry hash, and
// (when signatures are present) every signature. It never returns an error —
// per spec §7, integrity failures are reported as a boolean, not raised.
func (p *Pack) Verify() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	prevHash := ""
	for _, e := range p.Entries {
		if e.PrevHash != prevHash {
			return false
		}
		recomputed, err := computeEntryHash(Entry{
			Timestamp: e.Timestamp,
			Phase:     e.Phase,
			Kind:      e.Kind,
			Data:      e.Data,
			PrevHash:  e.PrevHash,
		})
		if err != nil || recomputed != e.EntryHash {
			return false
		}
		if e.Signature != "" {
			sigBytes, err := hex.DecodeString(e.Signature)
			if err != nil {
				return false
			}
			pub, err := p.publicKey()
			if err != nil {
				return false
			}
			if _, err := jws.Verify(sigBytes, jws.WithKey(jwa.EdDSA, pub)); err != nil {
				return false
			}
		}
		prevHash = e.EntryHash
	}
	return true
}

func (p *Pack) publicKey() (ed25519.PublicKey, error) {
	if p.SignerPublicKey == "" {
		return nil, errors.New("evidence: no signer public key recorded")
	}
	raw, err := hex.DecodeString(p.SignerPublicKey)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(raw), nil
}

// MerkleRootHash computes (and caches on the pack) the RFC 6962 Merkle root
// over the entry hashes, in append order.
func (p *Pack) MerkleRootHash() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	leaves := make([][]byte, len(p.Entries))
	for i, e := range p.Entries {
		raw, _ := hex.DecodeString(e.EntryHash)
		leaves[i] = raw
	}
	root := merkleRoot(leaves)
	p.MerkleRoot = hex.EncodeToString(root)
	return p.MerkleRoot
}

// Finalize stamps EndTime and computes the Merkle root, preparing the pack
// for persistence.
func (p *Pack) Finalize() {
	p.mu.Lock()
	p.EndTime = time.Now().UTC()
	p.mu.Unlock()
	p.MerkleRootHash()
}

// Len returns the number of entries currently in the pack.
func (p *Pack) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Entries)
}
