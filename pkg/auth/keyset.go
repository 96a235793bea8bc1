package auth

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwks struct {
	Keys []jsonWebKey `json:"keys"`
}

type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// KeySet resolves RS256 verification keys from a JWKS endpoint.
type KeySet struct {
	mu         sync.RWMutex
	keys       map[string]*rsa.PublicKey
	url        string
	refreshed  time.Time
	httpClient *http.Client
}

func NewKeySet(url string) *KeySet {
	return &KeySet{
		url:        url,
		keys:       make(map[string]*rsa.PublicKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// KeyFunc satisfies jwt.Keyfunc for RSA-signed tokens.
func (s *KeySet) KeyFunc(token *jwt.Token) (interface{}, error) {
	kid, ok := token.Header["kid"].(string)
	if !ok {
		return nil, fmt.Errorf("kid header not found")
	}

	s.mu.RLock()
	key, exists := s.keys[kid]
	s.mu.RUnlock()
	if exists {
		return key, nil
	}

	if err := s.refresh(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	key, exists = s.keys[kid]
	s.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("key %q not found", kid)
	}
	return key, nil
}

func (s *KeySet) refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// at most one refresh per minute
	if time.Since(s.refreshed) < time.Minute && len(s.keys) > 0 {
		return nil
	}

	resp, err := s.httpClient.Get(s.url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks endpoint returned %d", resp.StatusCode)
	}

	var set jwks
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return err
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.publicKey()
		if err != nil {
			return err
		}
		keys[k.Kid] = pub
	}
	s.keys = keys
	s.refreshed = time.Now()
	return nil
}

func (k jsonWebKey) publicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	var e int
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}
