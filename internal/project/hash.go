package project

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/roach88/cardsmith/internal/document"
)

// DomainContent prefixes content hashes. The version suffix allows a future
// change of algorithm or encoding.
const DomainContent = "cardsmith/content/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash identifies the editable content of a project: the active side
// and both sides' shapes and settings. Timestamps and autosave flags are
// excluded, so re-saving unchanged content yields the same hash.
func ContentHash(p Project) (string, error) {
	content := struct {
		CurrentSide document.SideID `json:"currentSide"`
		Front       document.Side   `json:"front"`
		Back        document.Side   `json:"back"`
	}{p.CurrentSide, p.Front, p.Back}

	data, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("ContentHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainContent, data), nil
}
