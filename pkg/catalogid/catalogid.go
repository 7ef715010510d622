// Package catalogid generates the two kinds of identifier this core
// hands out: short collision-resistant prefixed IDs for long-lived
// objects (drives tracked by the watcher, named queries), and UUIDs for
// per-build-run correlation, grounded on
// _examples/mutagen-io-mutagen/pkg/identifier's prefix+random-then-encode
// scheme, re-expressed over github.com/eknkc/basex instead of a
// hand-rolled base62 alphabet.
package catalogid

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"

	"github.com/eknkc/basex"
	"github.com/google/uuid"
)

// alphabet mirrors the teacher's Base62Alphabet (digits, then upper, then
// lower) so encoded IDs sort the same way.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// encoding is built once; basex.NewEncoding validates the alphabet (63
// distinct runes would be rejected, but this one is the standard 62).
var encoding = mustEncoding()

func mustEncoding() *basex.Encoding {
	enc, err := basex.NewEncoding(alphabet)
	if err != nil {
		panic(fmt.Sprintf("catalogid: invalid alphabet: %v", err))
	}
	return enc
}

const (
	// requiredPrefixLength matches every prefix constant below.
	requiredPrefixLength = 4
	// randomBytes is the collision-resistant random payload size.
	randomBytes = 32
	// targetEncodedLength is the fixed width encoded IDs are left-padded
	// to, so two IDs with the same prefix are always the same length.
	// ceil(32*8*ln(2)/ln(62)) = 43, the same bound the teacher computes
	// for its own Base62 encoding.
	targetEncodedLength = 43
)

const (
	// PrefixDrive identifies a tracked drive's watcher state.
	PrefixDrive = "driv"
	// PrefixQuery identifies a named/saved query.
	PrefixQuery = "qury"
)

var matcher = regexp.MustCompile(`^[a-z]{4}_[0-9A-Za-z]{43}$`)

// New generates a collision-resistant identifier with the given 4-letter
// lowercase prefix (PrefixDrive, PrefixQuery, or a caller-defined one).
func New(prefix string) (string, error) {
	if len(prefix) != requiredPrefixLength {
		return "", fmt.Errorf("catalogid: prefix must be %d characters, got %q", requiredPrefixLength, prefix)
	}
	for _, r := range prefix {
		if r < 'a' || r > 'z' {
			return "", fmt.Errorf("catalogid: invalid prefix character %q", r)
		}
	}

	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("catalogid: reading random bytes: %w", err)
	}

	encoded := encoding.Encode(buf)
	if len(encoded) > targetEncodedLength {
		panic("catalogid: encoded random data longer than expected")
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteRune('_')
	for i := targetEncodedLength - len(encoded); i > 0; i-- {
		b.WriteByte(alphabet[0])
	}
	b.WriteString(encoded)
	return b.String(), nil
}

// IsValid reports whether value has the shape New produces.
func IsValid(value string) bool {
	return matcher.MatchString(value)
}

// NewCorrelationID returns a fresh UUID used to tie together the log
// lines produced by a single build or watch run.
func NewCorrelationID() string {
	return uuid.NewString()
}
