package user

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

type CredentialService interface {
	Generate() (string, error)
	Hash(password string) (string, error)
}

type BcryptCredentialService struct {
	length int
	cost   int
}

func NewBcryptCredentialService(length, cost int) *BcryptCredentialService {
	if length <= 0 {
		length = 12
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCredentialService{length: length, cost: cost}
}

// Generate returns a random password drawn from an alphabet without look-alike characters.
func (s *BcryptCredentialService) Generate() (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, s.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func (s *BcryptCredentialService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
