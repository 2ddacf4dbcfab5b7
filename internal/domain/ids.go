package domain

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// ProductID is a 24-character lowercase hex identifier in the document-store object id
// layout: 4 bytes of unix seconds, 5 random bytes, 3 bytes of a process-wide counter.
type ProductID string

// CartID is the caller-supplied session token a cart is keyed by.
type CartID string

const (
	productIDLen = 24
	cartIDMaxLen = 64
)

var (
	productIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	cartIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	objectIDRandom  = processRandom()
	objectIDCounter atomic.Uint32
)

func ParseProductID(s string) (ProductID, error) {
	s = strings.TrimSpace(s)
	if len(s) != productIDLen || !productIDPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ProductID(strings.ToLower(s)), nil
}

func MustParseProductID(s string) ProductID {
	id, err := ParseProductID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func NewProductID() ProductID {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(time.Now().Unix()))
	copy(b[4:9], objectIDRandom[:])
	c := objectIDCounter.Add(1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return ProductID(hex.EncodeToString(b[:]))
}

func (id ProductID) String() string {
	return string(id)
}

func ParseCartID(s string) (CartID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", validationError("cart id is empty")
	}
	if len(s) > cartIDMaxLen || !cartIDPattern.MatchString(s) {
		return "", validationError("cart id %q is malformed", s)
	}
	return CartID(s), nil
}

func (id CartID) String() string {
	return string(id)
}

func processRandom() [5]byte {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Errorf("rand.Read: %w", err))
	}
	return b
}
