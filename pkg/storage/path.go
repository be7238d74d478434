package storage

import (
	"net/url"
	"strings"
)

var objectPrefixes = []string{
	"storage/v1/object/public/",
	"storage/v1/object/authenticated/",
	"storage/v1/object/sign/",
	"storage/v1/object/",
	"object/public/",
	"object/authenticated/",
	"object/sign/",
	"public/",
}

// NormalizePath converts a raw storage path, which may be a full object URL,
// a URL-encoded path, or a bucket-relative key, into a key within bucket.
func NormalizePath(bucket, raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	p = strings.ReplaceAll(p, `\`, "/")

	if u, err := url.Parse(p); err == nil && u.Scheme != "" && u.Host != "" {
		p = u.Path
	}
	p = strings.TrimLeft(p, "/")

	for _, prefix := range objectPrefixes {
		if rest, ok := strings.CutPrefix(p, prefix+bucket+"/"); ok {
			p = rest
			break
		}
	}
	if rest, ok := strings.CutPrefix(p, bucket+"/"); ok {
		p = rest
	}
	p = strings.Trim(p, "/")

	if p == "" {
		return "", ErrEmptyKey
	}
	if p == bucket {
		return "", ErrInvalidKey
	}
	for seg := range strings.SplitSeq(p, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	return p, nil
}
