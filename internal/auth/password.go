package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xdg-go/scram"
)

const (
	mechanismName = "SCRAM-SHA-256"
	saltLen       = 32
	minIterations = 4096
)

// Hasher derives SCRAM-SHA-256 stored credentials from passwords. Hashes
// use the textual form
//
//	SCRAM-SHA-256$<iters>:<b64 salt>$<b64 StoredKey>:<b64 ServerKey>
type Hasher struct {
	iterations int
	// dummy is a valid hash of no member's password; Burn verifies
	// against it.
	dummy string
}

func NewHasher(iterations int) *Hasher {
	if iterations < minIterations {
		iterations = minIterations
	}
	h := &Hasher{iterations: iterations}
	h.dummy, _ = h.encode("unregistered-member", make([]byte, saltLen))
	return h
}

func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("creating random salt: %w", err)
	}
	return h.encode(password, salt)
}

func (h *Hasher) encode(password string, salt []byte) (string, error) {
	sc, err := storedCredentials(password, salt, h.iterations)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s$%d:%s$%s:%s",
		mechanismName,
		h.iterations,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	), nil
}

// Burn does the work of a failed Verify, so an unknown email costs as
// much as a wrong password.
func (h *Hasher) Burn(password string) {
	_, _ = h.Verify(password, h.dummy)
}

// Verify recomputes the credentials for password with the salt and
// iteration count recorded in encoded.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	salt, iters, storedKey, serverKey, err := parseHash(encoded)
	if err != nil {
		return false, err
	}

	sc, err := storedCredentials(password, salt, iters)
	if err != nil {
		return false, err
	}

	storedOK := subtle.ConstantTimeCompare(sc.StoredKey, storedKey) == 1
	serverOK := subtle.ConstantTimeCompare(sc.ServerKey, serverKey) == 1
	return storedOK && serverOK, nil
}

func storedCredentials(password string, salt []byte, iters int) (scram.StoredCredentials, error) {
	if password == "" {
		return scram.StoredCredentials{}, errors.New("password must be non-empty")
	}

	client, err := scram.SHA256.NewClient("member", password, "")
	if err != nil {
		return scram.StoredCredentials{}, fmt.Errorf("creating SCRAM client: %w", err)
	}

	return client.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(salt),
		Iters: iters,
	}), nil
}

func parseHash(encoded string) (salt []byte, iters int, storedKey, serverKey []byte, err error) {
	malformed := errors.New("malformed password hash")

	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != mechanismName {
		return nil, 0, nil, nil, malformed
	}

	factors := strings.SplitN(parts[1], ":", 2)
	keys := strings.SplitN(parts[2], ":", 2)
	if len(factors) != 2 || len(keys) != 2 {
		return nil, 0, nil, nil, malformed
	}

	if iters, err = strconv.Atoi(factors[0]); err != nil || iters < minIterations {
		return nil, 0, nil, nil, malformed
	}
	if salt, err = base64.StdEncoding.DecodeString(factors[1]); err != nil {
		return nil, 0, nil, nil, malformed
	}
	if storedKey, err = base64.StdEncoding.DecodeString(keys[0]); err != nil {
		return nil, 0, nil, nil, malformed
	}
	if serverKey, err = base64.StdEncoding.DecodeString(keys[1]); err != nil {
		return nil, 0, nil, nil, malformed
	}

	return salt, iters, storedKey, serverKey, nil
}
