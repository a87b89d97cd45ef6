package campaigns

import (
	"encoding/json"
	"os"
	"strings"
)

const (
	// ServerEnvKey names the environment value holding the Mailchimp data center (e.g. "us6").
	ServerEnvKey = "mailchimp_server"
	// Provider is the credential provider the access token is looked up from.
	Provider = "mailchimp"
	// AccessTokenKey is the provider credential used as the bearer token.
	AccessTokenKey = "access_token"
)

// Environment supplies host managed configuration values.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// Credentials supplies host managed provider secrets.
type Credentials interface {
	LookupCredential(provider string, key string) (string, bool)
}

// MapEnvironment is an Environment backed by a map.
type MapEnvironment map[string]string

func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// OSEnvironment reads values from the process environment.
// Keys are upper-cased, so "mailchimp_server" is read from MAILCHIMP_SERVER.
type OSEnvironment struct{}

func (OSEnvironment) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(strings.ToUpper(key))
}

// ChainEnvironment returns the first value found.
type ChainEnvironment []Environment

func (c ChainEnvironment) LookupEnv(key string) (string, bool) {
	for _, env := range c {
		if env == nil {
			continue
		}
		if v, ok := env.LookupEnv(key); ok {
			return v, true
		}
	}
	return "", false
}

// MapCredentials is a Credentials store keyed by provider then credential name.
type MapCredentials map[string]map[string]string

func (m MapCredentials) LookupCredential(provider string, key string) (string, bool) {
	v, ok := m[provider][key]
	return v, ok
}

// EnvCredentials reads provider credentials stored as a JSON object in an env var
// named after the upper-cased provider, e.g. MAILCHIMP='{"access_token":"..."}'.
type EnvCredentials struct{}

func (EnvCredentials) LookupCredential(provider string, key string) (string, bool) {
	s := os.Getenv(strings.ToUpper(provider))
	if s == "" {
		return "", false
	}
	m := make(map[string]string)
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return "", false
	}
	v, exists := m[key]
	return v, exists
}

// ChainCredentials returns the first credential found.
type ChainCredentials []Credentials

func (c ChainCredentials) LookupCredential(provider string, key string) (string, bool) {
	for _, creds := range c {
		if creds == nil {
			continue
		}
		if v, ok := creds.LookupCredential(provider, key); ok {
			return v, true
		}
	}
	return "", false
}

// requireEnv returns the named environment value or a ConfigError when it is missing or empty.
func requireEnv(env Environment, key string) (string, error) {
	if env == nil {
		return "", &ConfigError{Key: key}
	}
	v, ok := env.LookupEnv(key)
	if !ok || v == "" {
		return "", &ConfigError{Key: key}
	}
	return v, nil
}

// accessToken looks up the bearer token. A missing token is not an error here;
// the remote API rejects the request instead.
func accessToken(creds Credentials) string {
	if creds == nil {
		return ""
	}
	v, _ := creds.LookupCredential(Provider, AccessTokenKey)
	return v
}
