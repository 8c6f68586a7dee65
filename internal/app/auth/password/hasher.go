// Package password hashes and verifies account credentials.
package password

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	customErrors "github.com/Miraines/MoonyAndStarry/tube-service/internal/domain/auth/errors"
)

type Hasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A mismatch is (false, nil).
	Verify(plain, hash string) (bool, error)
}

var argonParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// BcryptCost is the work factor for newly created bcrypt hashes.
const BcryptCost = 10

// New returns the hasher registered under name ("argon2id" or "bcrypt").
func New(name, pepper string) (Hasher, error) {
	switch name {
	case "", "argon2id":
		return NewArgon2(pepper, argonParams), nil
	case "bcrypt":
		return NewBcrypt(pepper, BcryptCost), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

type argon2Hasher struct {
	pepper string
	params *argon2id.Params
}

func NewArgon2(pepper string, params *argon2id.Params) Hasher {
	return &argon2Hasher{pepper: pepper, params: params}
}

func (h *argon2Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", customErrors.NewInvalidArgument("password is required")
	}
	hash, err := argon2id.CreateHash(plain+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "argon2id hash")
	}
	return hash, nil
}

func (h *argon2Hasher) Verify(plain, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, hash)
	if err != nil {
		return false, customErrors.WrapInternal(err, "argon2id compare")
	}
	return ok, nil
}

// bcryptMaxInput is the number of bytes bcrypt accepts, pepper included.
const bcryptMaxInput = 72

type bcryptHasher struct {
	pepper string
	cost   int
}

func NewBcrypt(pepper string, cost int) Hasher {
	return &bcryptHasher{pepper: pepper, cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", customErrors.NewInvalidArgument("password is required")
	}
	if len(plain)+len(h.pepper) > bcryptMaxInput {
		return "", customErrors.NewInvalidArgument(
			fmt.Sprintf("password is too long: at most %d bytes", max(bcryptMaxInput-len(h.pepper), 0)))
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain+h.pepper), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", customErrors.NewInvalidArgument("password is too long")
		}
		return "", customErrors.WrapInternal(err, "bcrypt hash")
	}
	return string(out), nil
}

func (h *bcryptHasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain+h.pepper))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, customErrors.WrapInternal(err, "bcrypt compare")
	}
}
