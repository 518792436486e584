package api

import (
	"encoding/hex"
	"errors"
	"strings"

	"github.com/anomi-labs/clob/core/book"
)

var errBadAddr = errors.New("api: addr must be a 0x-prefixed 40-hex-character string")

// decodeAddr parses the wire address format: a 0x-prefixed
// 40-hex-character string encoding the opaque 20-byte account
// identifier.
func decodeAddr(s string) (book.Addr, error) {
	var a book.Addr
	if !strings.HasPrefix(s, "0x") {
		return a, errBadAddr
	}
	s = strings.TrimPrefix(s, "0x")
	if len(s) != len(a)*2 {
		return a, errBadAddr
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, errBadAddr
	}
	copy(a[:], raw)
	return a, nil
}

func encodeAddr(a book.Addr) string {
	return "0x" + hex.EncodeToString(a[:])
}
