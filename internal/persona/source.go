package persona

import (
	"crypto/rand"
	"io"
	"math/big"
	mrand "math/rand/v2"
)

// Source is the randomness every sampling operation draws from.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Int64N returns a uniform int64 in [0, n). It panics if n <= 0.
	Int64N(n int64) int64
}

// pcgStream is the fixed second PCG word; seeds differ only in the first.
const pcgStream = 0x7a70657273_6f6e61

// NewSource returns a reproducible source for seed.
// It is not safe for concurrent use.
func NewSource(seed uint64) Source {
	return mrand.New(mrand.NewPCG(seed, pcgStream))
}

// CryptoSource draws from crypto/rand. It is safe for concurrent use.
type CryptoSource struct{}

// IntN returns a cryptographically random int in [0, n).
func (c CryptoSource) IntN(n int) int {
	return int(c.Int64N(int64(n)))
}

// Int64N returns a cryptographically random int64 in [0, n).
func (CryptoSource) Int64N(n int64) int64 {
	if n <= 0 {
		panic("persona: invalid argument to Int64N")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// crypto/rand failure is unrecoverable
		panic("crypto/rand: " + err.Error())
	}
	return v.Int64()
}

// Reader adapts src to an io.Reader producing uniform bytes.
func Reader(src Source) io.Reader {
	return sourceReader{src: src}
}

type sourceReader struct {
	src Source
}

func (r sourceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.IntN(256))
	}
	return len(p), nil
}

// chance reports true with the given probability in percent.
func chance(src Source, percent int) bool {
	return src.IntN(100) < percent
}

// pick returns a uniform element of a non-empty slice.
func pick[T any](src Source, s []T) T {
	return s[src.IntN(len(s))]
}
