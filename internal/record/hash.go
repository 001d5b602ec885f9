package record

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes keep hashes of different record kinds apart. The version
// suffix leaves room to change the encoding later.
const (
	DomainEvent = "speedclue/event/v1"
	DomainDeal  = "speedclue/deal/v1"
)

// hashWithDomain returns hex(SHA-256(domain || 0x00 || data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EventID is the content address of one logged event. It covers the match,
// the event's position in it and its payload.
func EventID(matchID string, seq int, payload Object) (string, error) {
	data, err := Marshal(Object{
		"match_id": String(matchID),
		"seq":      Int(seq),
		"payload":  payload,
	})
	if err != nil {
		return "", fmt.Errorf("event id: %w", err)
	}
	return hashWithDomain(DomainEvent, data), nil
}

// DealHash fingerprints a deal so that two logged matches can be compared
// without reading their seats.
func DealHash(deal Object) (string, error) {
	data, err := Marshal(deal)
	if err != nil {
		return "", fmt.Errorf("deal hash: %w", err)
	}
	return hashWithDomain(DomainDeal, data), nil
}
