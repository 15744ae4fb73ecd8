package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const sigv4Algorithm = "AWS4-HMAC-SHA256"

// signer assina requisições com AWS Signature Version 4.
type signer struct {
	accessKey string
	secretKey string
	region    string
	service   string
	now       func() time.Time
}

func newSigner(accessKey, secretKey, region, service string) *signer {
	return &signer{accessKey: accessKey, secretKey: secretKey, region: region, service: service, now: time.Now}
}

// sign preenche x-amz-date, x-amz-content-sha256 e Authorization.
// Assina host, content-type e todos os cabeçalhos x-amz-*.
func (s *signer) sign(req *http.Request, payloadHash string) {
	now := s.now().UTC()
	amzDate := now.Format("20060102T150405Z")
	day := now.Format("20060102")

	req.Header.Set("x-amz-date", amzDate)
	req.Header.Set("x-amz-content-sha256", payloadHash)

	canonicalHeaders, signedHeaders := s.canonicalHeaders(req)
	canonicalRequest := strings.Join([]string{
		req.Method,
		canonicalPath(req.URL.Path),
		canonicalQuery(req.URL.Query()),
		canonicalHeaders,
		signedHeaders,
		payloadHash,
	}, "\n")

	scope := fmt.Sprintf("%s/%s/%s/aws4_request", day, s.region, s.service)
	digest := sha256.Sum256([]byte(canonicalRequest))
	stringToSign := strings.Join([]string{sigv4Algorithm, amzDate, scope, hex.EncodeToString(digest[:])}, "\n")

	key := hmacSHA256([]byte("AWS4"+s.secretKey), day)
	for _, part := range []string{s.region, s.service, "aws4_request"} {
		key = hmacSHA256(key, part)
	}
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		sigv4Algorithm, s.accessKey, scope, signedHeaders, signature))
}

func (s *signer) canonicalHeaders(req *http.Request) (string, string) {
	values := map[string]string{"host": req.URL.Host}
	for name, vals := range req.Header {
		lower := strings.ToLower(name)
		if lower != "content-type" && !strings.HasPrefix(lower, "x-amz-") {
			continue
		}
		trimmed := make([]string, len(vals))
		for i, v := range vals {
			trimmed[i] = strings.Join(strings.Fields(v), " ")
		}
		values[lower] = strings.Join(trimmed, ",")
	}

	names := slices.Sorted(maps.Keys(values))
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(values[name])
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(names, ";")
}

func canonicalPath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return awsEscape(path, false)
}

func canonicalQuery(values url.Values) string {
	pairs := make([]string, 0, len(values))
	for _, key := range slices.Sorted(maps.Keys(values)) {
		vals := slices.Clone(values[key])
		slices.Sort(vals)
		for _, v := range vals {
			pairs = append(pairs, awsEscape(key, true)+"="+awsEscape(v, true))
		}
	}
	return strings.Join(pairs, "&")
}

// awsEscape aplica o percent-encoding do SigV4: só A-Z a-z 0-9 - _ . ~ ficam literais.
func awsEscape(s string, escapeSlash bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			b.WriteByte(c)
		case c == '/' && !escapeSlash:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
