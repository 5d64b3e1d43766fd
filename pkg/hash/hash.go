package hash

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used for stored credentials.
const DefaultCost = 10

// maxPasswordBytes is the bcrypt input limit. Longer passwords are cut to
// this length on both hash and verify, matching other bcrypt implementations
// that truncate silently.
const maxPasswordBytes = 72

type Bcrypt struct {
	Cost int
}

func NewBcrypt() Bcrypt { return Bcrypt{Cost: DefaultCost} }

func truncate(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	hashbytes, err := bcrypt.GenerateFromPassword(truncate(password), cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func (b Bcrypt) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(password)) == nil
}
