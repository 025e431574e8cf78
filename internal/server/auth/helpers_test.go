package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saolsen/gameplay-computer/internal/common"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/stretchr/testify/require"
)

var (
	keysOnce  sync.Once
	signKey   *rsa.PrivateKey
	otherKey  *rsa.PrivateKey
	keysError error
)

func testKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()
	keysOnce.Do(func() {
		signKey, keysError = rsa.GenerateKey(rand.Reader, 2048)
		if keysError != nil {
			return
		}
		otherKey, keysError = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, keysError)
	return signKey, otherKey
}

func publicPEM(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func validClaims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"clerk_id":   "user_2aXk9",
		"email":      "ada@example.com",
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"username":   "ada",
		"iat":        time.Now().Add(-time.Minute).Unix(),
		"exp":        exp.Unix(),
	}
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func requestWithSession(value string) *http.Request {
	r, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: value})
	return r
}

// cookieMap is a CookieStore that is not an *http.Request.
type cookieMap map[string]string

func (m cookieMap) Cookie(name string) (*http.Cookie, error) {
	v, ok := m[name]
	if !ok {
		return nil, http.ErrNoCookie
	}
	return &http.Cookie{Name: name, Value: v}, nil
}

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]logEntry{}}
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(_ context.Context, msg string, args ...any) { l.add("debug", msg, args) }
func (l *recordingLogger) Info(_ context.Context, msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Warn(_ context.Context, msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Error(_ context.Context, msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) With(...any) logging.Logger                       { return l }

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), *l.entries...)
}
