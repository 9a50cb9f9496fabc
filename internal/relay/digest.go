package relay

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest returns the lowercase hex MD5 of the plaintext credential, the
// form the relay's login endpoint expects in place of the password.
func Digest(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
