// Package version reports the build identity of the speakeralign binary.
//
// Version, commit, branch and build time are stamped via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/speakeralign/version.Version=1.0.0"
//
// Unset values are filled from the module's embedded VCS build settings.
package version
