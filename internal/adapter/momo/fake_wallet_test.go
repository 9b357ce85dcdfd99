package momo

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"momo-bridge/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

func rsaTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		testKey = k
	})
	return testKey
}

func pkixPEM(t *testing.T, pub *rsa.PublicKey) string {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

func pkcs1PEM(pub *rsa.PublicKey) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: x509.MarshalPKCS1PublicKey(pub)}))
}

// walletCall is one request as seen by the fake server.
type walletCall struct {
	Path      string
	Header    http.Header
	Body      map[string]interface{}
	AESKey    string // set for encrypted calls
	Encrypted bool
}

func (c walletCall) momoMsg() map[string]interface{} {
	m, _ := c.Body["momoMsg"].(map[string]interface{})
	return m
}

func (c walletCall) extra() map[string]interface{} {
	m, _ := c.Body["extra"].(map[string]interface{})
	return m
}

func (c walletCall) time() int64 {
	n, _ := c.Body["time"].(json.Number).Int64()
	return n
}

// walletReply is what a fake handler answers. JSON is encrypted for
// encrypted calls unless Plain is set; Raw is written verbatim.
type walletReply struct {
	Status int
	JSON   interface{}
	Plain  bool
	Raw    string
}

type walletHandler func(call walletCall) walletReply

type fakeWallet struct {
	t       *testing.T
	key     *rsa.PrivateKey
	server  *httptest.Server
	mu      sync.Mutex
	routes  map[string]walletHandler
	history []walletCall
}

func newFakeWallet(t *testing.T) *fakeWallet {
	t.Helper()
	f := &fakeWallet{
		t:      t,
		key:    rsaTestKey(t),
		routes: map[string]walletHandler{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeWallet) handle(path string, h walletHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = h
}

func (f *fakeWallet) calls() []walletCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]walletCall(nil), f.history...)
}

func (f *fakeWallet) client() *Client {
	return NewClient(f.server.Client(), Releases[DefaultRelease], EndpointsAt(f.server.URL), zerolog.Nop())
}

func (f *fakeWallet) session() domain.Session {
	return domain.Session{
		Phone:             testPhone,
		AuthToken:         "auth-token-1",
		RequestEncryptKey: pkixPEM(f.t, &f.key.PublicKey),
		RefreshToken:      "refresh-token-1",
	}
}

func (f *fakeWallet) sessionContext() domain.SessionContext {
	return domain.SessionContext{
		Device:  testDevice,
		Grant:   testGrant,
		Session: f.session(),
	}
}

func (f *fakeWallet) serve(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	call := walletCall{Path: r.URL.Path, Header: r.Header.Clone()}

	payload := raw
	if rk := r.Header.Get("requestkey"); rk != "" {
		sealedKey, err := base64.StdEncoding.DecodeString(rk)
		if err != nil {
			http.Error(w, "bad requestkey", http.StatusBadRequest)
			return
		}
		aesKey, err := rsa.DecryptPKCS1v15(rand.Reader, f.key, sealedKey)
		if err != nil {
			http.Error(w, "requestkey does not decrypt", http.StatusBadRequest)
			return
		}
		plain, err := DecryptAES(string(raw), string(aesKey))
		if err != nil {
			http.Error(w, "body does not decrypt", http.StatusBadRequest)
			return
		}
		call.AESKey = string(aesKey)
		call.Encrypted = true
		payload = []byte(plain)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&call.Body); err != nil {
		http.Error(w, "body is not JSON", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.history = append(f.history, call)
	h, ok := f.routes[r.URL.Path]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	reply := h(call)
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}

	if reply.Raw != "" {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply.Raw))
		return
	}

	out, err := json.Marshal(reply.JSON)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if call.Encrypted && !reply.Plain {
		sealed, err := EncryptAES(string(out), call.AESKey)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(sealed))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		return t
	default:
		return ""
	}
}
