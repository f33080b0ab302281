// Package storage resolves media object keys (team logos, user avatars)
// into URLs clients can load. The objects themselves are uploaded by the
// teams/identity tooling; the hub only reads.
package storage

// FileUploader is the media port. GetPublicURL returns "" when no URL can be
// built, which callers treat as "no logo".
type FileUploader interface {
	GetPublicURL(key string) string
}

// NoopUploader serves deployments without object storage configured; every
// key resolves to no URL.
type NoopUploader struct{}

func (NoopUploader) GetPublicURL(string) string { return "" }
