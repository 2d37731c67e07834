package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when no user matches a login email so the
// unknown-email and wrong-password paths take similar time.
var dummyHash = []byte("$2a$12$8Kt0Yw1yXypBnGkyxEma9u0e8C6p0P7obNNh41cBSfBLjFmmjZJGi")

// HashPassword hashes a plaintext password with the configured cost. The
// salt is random per call, so equal inputs produce distinct hashes.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value in constant
// time with respect to the mismatch position.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// DummyCompare burns a bcrypt verification against a throwaway hash.
func DummyCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
