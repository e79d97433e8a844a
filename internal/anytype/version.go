package anytype

import (
	"strings"

	"golang.org/x/mod/semver"
)

// VersionStatus is the outcome of comparing client and server API versions.
type VersionStatus int

const (
	VersionOK VersionStatus = iota
	// VersionClientOutdated means the server is newer: update anyctl.
	VersionClientOutdated
	// VersionAppOutdated means the server is older: update the Anytype app.
	VersionAppOutdated
)

// CheckVersion compares the server's API version with the client's.
// Semantic versions ("1.2.3", "v1.2.3") are compared with semver rules,
// anything else (date stamps like "2025-05-20") lexically. An empty
// server version is treated as a match.
func CheckVersion(server, client string) VersionStatus {
	server, client = strings.TrimSpace(server), strings.TrimSpace(client)
	if server == "" || client == "" {
		return VersionOK
	}
	var cmp int
	sv, cv := canonicalSemver(server), canonicalSemver(client)
	if semver.IsValid(sv) && semver.IsValid(cv) {
		cmp = semver.Compare(sv, cv)
	} else {
		cmp = strings.Compare(server, client)
	}
	switch {
	case cmp > 0:
		return VersionClientOutdated
	case cmp < 0:
		return VersionAppOutdated
	}
	return VersionOK
}

func canonicalSemver(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
