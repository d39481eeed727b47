package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidHash         = errors.New("invalid password hash format")
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	ErrMismatch            = errors.New("password does not match")
	ErrTooShort            = errors.New("password is too short")
)

// Params are the Argon2id cost settings. Memory is in KiB.
type Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultParams() *Params {
	return &Params{Memory: 64 * 1024, Iterations: 3, Parallelism: 2, SaltLength: 16, KeyLength: 32}
}

// Hasher hashes account passwords and enforces the minimum length.
type Hasher struct {
	params    *Params
	minLength int
}

func NewHasher(cfg Config) *Hasher {
	return &Hasher{params: cfg.ToParams(), minLength: cfg.MinLength}
}

// CheckLength counts runes, not bytes.
func (h *Hasher) CheckLength(password string) error {
	if utf8.RuneCountInString(password) < h.minLength {
		return ErrTooShort
	}
	return nil
}

func (h *Hasher) MinLength() int { return h.minLength }

func (h *Hasher) Hash(password string) (string, error) {
	return HashWithParams(password, h.params)
}

func (h *Hasher) Verify(hash, password string) error {
	return Verify(hash, password)
}

// NeedsRehash reports whether hash should be replaced on the next successful
// login: it is bcrypt, unreadable, or Argon2id with other parameters.
func (h *Hasher) NeedsRehash(hash string) bool {
	enc, err := parsePHC(hash)
	if err != nil {
		return true
	}
	return enc.params.Memory != h.params.Memory ||
		enc.params.Iterations != h.params.Iterations ||
		enc.params.Parallelism != h.params.Parallelism ||
		enc.params.KeyLength != h.params.KeyLength
}

// HashWithParams returns password as an Argon2id PHC string,
// $argon2id$v=19$m=<KiB>,t=<iterations>,p=<lanes>$<salt>$<key>.
func HashWithParams(password string, p *Params) (string, error) {
	if p == nil {
		p = DefaultParams()
	}
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("password: read salt: %w", err)
	}
	enc := phc{params: *p, salt: salt}
	enc.key = enc.derive(password)
	return enc.String(), nil
}

// Verify checks password against an Argon2id hash, or a bcrypt hash carried
// over from accounts created before the Argon2id switch. It returns
// ErrMismatch for a wrong password and ErrInvalidHash or
// ErrIncompatibleVersion for hashes it cannot read.
func Verify(hash, password string) error {
	if isBcrypt(hash) {
		return verifyBcrypt(hash, password)
	}
	enc, err := parsePHC(hash)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare(enc.key, enc.derive(password)) != 1 {
		return ErrMismatch
	}
	return nil
}

// phc is a decoded Argon2id hash string.
type phc struct {
	params Params
	salt   []byte
	key    []byte
}

func (e phc) derive(password string) []byte {
	return argon2.IDKey([]byte(password), e.salt, e.params.Iterations, e.params.Memory, e.params.Parallelism, e.params.KeyLength)
}

func (e phc) String() string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, e.params.Memory, e.params.Iterations, e.params.Parallelism,
		b64.EncodeToString(e.salt), b64.EncodeToString(e.key))
}

func parsePHC(s string) (phc, error) {
	var e phc
	fields := strings.Split(s, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return e, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil {
		return e, ErrInvalidHash
	}
	if version != argon2.Version {
		return e, ErrIncompatibleVersion
	}
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &e.params.Memory, &e.params.Iterations, &e.params.Parallelism); err != nil {
		return e, ErrInvalidHash
	}

	var err error
	b64 := base64.RawStdEncoding
	if e.salt, err = b64.DecodeString(fields[4]); err != nil {
		return e, ErrInvalidHash
	}
	if e.key, err = b64.DecodeString(fields[5]); err != nil {
		return e, ErrInvalidHash
	}
	e.params.SaltLength = uint32(len(e.salt))
	e.params.KeyLength = uint32(len(e.key))
	return e, nil
}

// isBcrypt matches the $2a$, $2b$ and $2y$ modular crypt prefixes.
func isBcrypt(hash string) bool {
	return len(hash) > 4 && strings.HasPrefix(hash, "$2") && hash[3] == '$'
}

func verifyBcrypt(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return ErrInvalidHash
	}
}
