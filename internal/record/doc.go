// Package record defines the value model used for the persisted match log.
//
// Payloads are built from a small sealed set of JSON values (strings,
// integers, booleans, arrays and objects). There are no floats and no null,
// so a payload has exactly one canonical encoding: keys sorted by UTF-16
// code units, strings NFC-normalised, no insignificant whitespace and no
// HTML escaping. Event IDs are the domain-separated SHA-256 of that
// encoding, so the same match always produces the same IDs.
//
// record imports nothing from the rest of the module except the card and
// referee types it encodes.
package record
