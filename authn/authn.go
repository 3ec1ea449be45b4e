// Package authn checks bearer API keys against bcrypt-hashed secrets. It
// has no notion of users, privileges or multi-tenancy: a key is either
// valid or it isn't, and every valid key can use the full service.
package authn

import (
	"net/http"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
)

// Key is one named API key: Name identifies it in logs, HashedSecret is a
// bcrypt digest of the secret the key's holder presents.
type Key struct {
	Name         string `toml:"name"`
	HashedSecret string `toml:"hashed-secret"`
}

type keyFile struct {
	Keys []Key `toml:"key"`
}

// Service authenticates bearer tokens against a fixed set of keys.
type Service struct {
	byName map[string]Key
}

// NewService builds a Service from an in-memory key list.
func NewService(keys []Key) *Service {
	s := &Service{byName: make(map[string]Key, len(keys))}
	for _, k := range keys {
		s.byName[k.Name] = k
	}
	return s
}

// LoadKeyFile reads a TOML file of [[key]] tables and builds a Service
// from it.
func LoadKeyFile(path string) (*Service, error) {
	var f keyFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, err
	}
	return NewService(f.Keys), nil
}

// HashSecret bcrypt-hashes secret for storage in a key file.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Authenticate reports whether name/secret names a known key with a
// matching secret.
func (s *Service) Authenticate(name, secret string) bool {
	key, ok := s.byName[name]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(key.HashedSecret), []byte(secret)) == nil
}

// Middleware wraps next with bearer-token authentication. Requests must
// carry "Authorization: Bearer <name>:<secret>"; anything else is
// rejected with 401 before next ever runs.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name, secret, ok := parseBearer(r.Header.Get("Authorization"))
		if !ok || !s.Authenticate(name, secret) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="oneseismic"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseBearer(header string) (name, secret string, ok bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	token := strings.TrimPrefix(header, prefix)
	name, secret, found := strings.Cut(token, ":")
	if !found {
		return "", "", false
	}
	return name, secret, true
}
