// Package pagelist tracks the pages on which rendering is disabled.
//
// The list holds three kinds of entries:
//
//   - a full URL, disabling that page
//   - a hostname, disabling every page on that host
//     ("file" stands for local files)
//   - a prefix ending with "/*", disabling every URL that starts with it
//
// A prefix without a scheme, e.g. "example.com/docs/*",
// matches URLs with any scheme.
package pagelist

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"braces.dev/errtrace"
)

// Key is the name under which the list is stored.
const Key = "disabledPages"

// _fileHost is the hostname used for URLs without a host.
const _fileHost = "file"

// Store persists the list of disabled pages.
type Store interface {
	// DisabledPages returns the list of disabled entries.
	// An empty store reports an empty list.
	DisabledPages(ctx context.Context) ([]string, error)

	// SetDisabledPages replaces the list of disabled entries.
	SetDisabledPages(ctx context.Context, entries []string) error
}

// Hostname reports the hostname of the given URL,
// or "file" if it doesn't have one.
func Hostname(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	if h := u.Hostname(); h != "" {
		return h, nil
	}
	return _fileHost, nil
}

// Matches reports whether any of the entries disables the given URL.
func Matches(entries []string, rawURL string) bool {
	host, err := Hostname(rawURL)
	if err != nil {
		host = _fileHost
	}
	bare := stripScheme(rawURL)

	for _, entry := range entries {
		if entry == rawURL || entry == host {
			return true
		}

		if !strings.HasSuffix(entry, "/*") {
			continue
		}
		// Keep the "/" so that "example.com/*"
		// doesn't match "example.community".
		prefix := strings.TrimSuffix(entry, "*")
		if strings.HasPrefix(rawURL, prefix) {
			return true
		}
		if !strings.Contains(prefix, "://") && strings.HasPrefix(bare, prefix) {
			return true
		}
	}
	return false
}

func stripScheme(s string) string {
	if _, rest, ok := strings.Cut(s, "://"); ok {
		return rest
	}
	return s
}

// Enabled reports whether rendering is enabled for the given URL.
func Enabled(ctx context.Context, store Store, rawURL string) (bool, error) {
	entries, err := store.DisabledPages(ctx)
	if err != nil {
		return false, errtrace.Wrap(err)
	}
	return !Matches(entries, rawURL), nil
}

// SetEnabled enables or disables rendering for the given URL.
//
// Enabling removes entries that name the URL or its host.
// Disabling adds the URL's host to the list.
// Prefix entries are left alone in both cases.
func SetEnabled(ctx context.Context, store Store, rawURL string, enabled bool) error {
	host, err := Hostname(rawURL)
	if err != nil {
		return errtrace.Wrap(err)
	}

	entries, err := store.DisabledPages(ctx)
	if err != nil {
		return errtrace.Wrap(err)
	}

	if enabled {
		entries = slices.DeleteFunc(entries, func(entry string) bool {
			return entry == rawURL || entry == host
		})
	} else if !slices.Contains(entries, host) {
		entries = append(entries, host)
	}

	return errtrace.Wrap(store.SetDisabledPages(ctx, entries))
}
