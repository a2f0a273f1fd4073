package api

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
)

// signQuery appends the app-level signature the signed endpoints expect:
// parameters sorted by key, concatenated with the app secret, hashed with
// md5. url.Values.Encode already emits keys in sorted order.
func signQuery(values url.Values, secret string) string {
	query := values.Encode()
	sum := md5.Sum([]byte(query + secret))
	return query + "&sign=" + hex.EncodeToString(sum[:])
}
