// Package referral generates the short codes accounts hand out to earn
// signup bonuses.
package referral

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
	"sync"
)

const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 6
)

// CodeGenerator produces short uppercase alphanumeric referral codes. The
// random source is injected so tests can seed it deterministically.
type CodeGenerator struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewCodeGenerator builds a generator around the given source.
func NewCodeGenerator(src mathrand.Source) *CodeGenerator {
	return &CodeGenerator{rng: mathrand.New(src)}
}

// NewSeededCodeGenerator builds a generator seeded from the OS entropy pool.
func NewSeededCodeGenerator() *CodeGenerator {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("referral: cannot seed code generator: " + err.Error())
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]))
	return NewCodeGenerator(mathrand.NewSource(seed))
}

// Generate returns a new 6-character code. Uniqueness is not guaranteed here;
// callers check the code against the store and retry on collision.
func (g *CodeGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[g.rng.Intn(len(codeAlphabet))]
	}
	return string(buf)
}
