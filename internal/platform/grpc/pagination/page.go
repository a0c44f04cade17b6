// Package pagination normalizes page sizes and encodes cursor page tokens
// for list RPCs.
package pagination

import (
	"errors"
	"fmt"
	"hash/crc32"
	"strings"

	"go.einride.tech/aip/pagination"
)

// ErrTokenMismatch reports a page token issued for a different query.
var ErrTokenMismatch = errors.New("page token does not match request")

// PageSizeConfig configures page size normalization.
type PageSizeConfig struct {
	Default int
	Max     int
}

// ClampPageSize applies defaults and limits for page sizes.
func ClampPageSize(value int32, cfg PageSizeConfig) int {
	pageSize := int(value)
	if pageSize <= 0 {
		pageSize = cfg.Default
	}
	if cfg.Max > 0 && pageSize > cfg.Max {
		pageSize = cfg.Max
	}
	if pageSize <= 0 {
		pageSize = 1
	}
	return pageSize
}

// Cursor marks where the next page of a newest-first listing starts.
type Cursor struct {
	// BeforeID is the id of the last row already returned.
	BeforeID int64
	// Checksum binds the token to the query parameters it was issued for.
	Checksum uint32
}

// QueryChecksum hashes the query parameters a cursor must stay bound to.
func QueryChecksum(parts ...string) uint32 {
	return crc32.ChecksumIEEE([]byte(strings.Join(parts, "\x00")))
}

// EncodeCursor serializes a cursor into an opaque page token.
func EncodeCursor(cursor Cursor) string {
	return pagination.EncodePageTokenStruct(&cursor)
}

// DecodeCursor parses token and checks it was issued for checksum. An empty
// token yields the zero cursor.
func DecodeCursor(token string, checksum uint32) (Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Cursor{}, nil
	}
	var cursor Cursor
	if err := pagination.DecodePageTokenStruct(token, &cursor); err != nil {
		return Cursor{}, fmt.Errorf("decode page token: %w", err)
	}
	if cursor.BeforeID <= 0 {
		return Cursor{}, errors.New("decode page token: missing position")
	}
	if cursor.Checksum != checksum {
		return Cursor{}, ErrTokenMismatch
	}
	return cursor, nil
}
