// Package protocol owns the fixed-size frame wire contract.
//
// Ownership boundary:
// - frame layout tables (one declaration per message kind)
// - encode/decode derived from those tables
// - XOR-fold checksum computation and verification
// - tag dispatch and human-readable rendering of broadcasts
package protocol
