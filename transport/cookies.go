package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// exportedCookie matches the JSON emitted by browser cookie-export
// extensions: a flat array of objects with float expiration stamps.
type exportedCookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	ExpirationDate float64 `json:"expirationDate"`
	Secure         bool    `json:"secure"`
	HTTPOnly       bool    `json:"httpOnly"`
	Session        bool    `json:"session"`
}

// LoadCookieFile reads a browser cookie export and returns the cookies
// still valid at the time of the call. Expired entries are dropped rather
// than rejected so a stale export degrades to an auth failure upstream.
func LoadCookieFile(path string) ([]*http.Cookie, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookie file: %w", err)
	}
	var exported []exportedCookie
	if err := json.Unmarshal(raw, &exported); err != nil {
		return nil, fmt.Errorf("parse cookie file %s: %w", path, err)
	}

	now := float64(time.Now().Unix())
	cookies := make([]*http.Cookie, 0, len(exported))
	for _, ec := range exported {
		if !ec.Session && ec.ExpirationDate > 0 && ec.ExpirationDate < now {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:     ec.Name,
			Value:    ec.Value,
			Domain:   ec.Domain,
			Path:     ec.Path,
			Secure:   ec.Secure,
			HttpOnly: ec.HTTPOnly,
		})
	}
	if len(cookies) == 0 {
		return nil, fmt.Errorf("cookie file %s: no usable cookies", path)
	}
	return cookies, nil
}

// InstallCookies loads a cookie export and seeds the session jar for the
// given origin.
func (s *Session) InstallCookies(path, rawURL string) error {
	cookies, err := LoadCookieFile(path)
	if err != nil {
		return err
	}
	for _, c := range cookies {
		if err := s.SetCookie(rawURL, c); err != nil {
			return err
		}
	}
	return nil
}
