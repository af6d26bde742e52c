package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 600000
	saltLength        = 16
	keyLength         = 32
	pbkdf2Prefix      = "pbkdf2:sha256:"
)

// Hasher produces and checks password digests of the form
// pbkdf2:sha256:<iterations>$<salt>$<hex digest>.
type Hasher struct {
	Iterations int
}

func NewHasher(iterations int) Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return Hasher{Iterations: iterations}
}

func (h Hasher) Hash(password string) (string, error) {
	iterations := h.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	salt, err := newSalt()
	if err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return fmt.Sprintf("%s%d$%s$%s", pbkdf2Prefix, iterations, salt, hex.EncodeToString(key)), nil
}

// Verify reports whether password matches digest under the scheme recorded
// in the digest. bcrypt digests are accepted as well.
func (h Hasher) Verify(digest, password string) bool {
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}

	rest, ok := strings.CutPrefix(digest, pbkdf2Prefix)
	if !ok {
		return false
	}
	parts := strings.Split(rest, "$")
	if len(parts) != 3 {
		return false
	}
	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return false
	}

	got := pbkdf2.Key([]byte(password), []byte(parts[1]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}

const saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	for i := range b {
		b[i] = saltAlphabet[int(b[i])%len(saltAlphabet)]
	}
	return string(b), nil
}
