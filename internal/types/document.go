package types

// Document is one open editor buffer at a specific version. The version is
// a monotonically increasing counter bumped by the host on every edit; a
// cached analysis is valid only while its stored version matches.
type Document struct {
	Path    string
	Version int32
	Text    string
}
