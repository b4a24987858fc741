// Package captcha generates the short human-check tokens rendered into
// forms. Tokens are stateless on the server side: the expected answer is
// round-tripped through the client and compared on submit.
package captcha

import (
	"crypto/rand"

	"github.com/pkg/errors"
)

const (
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	Length   = 4
)

// New returns a fresh Length-character token drawn from Alphabet.
func New() (string, error) {
	buf := make([]byte, Length)
	_, err := rand.Read(buf)
	if err != nil {
		return "", errors.Wrap(err, "generate captcha")
	}
	for i, b := range buf {
		buf[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(buf), nil
}
