// Package pkg holds the project name and version.
//
//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version embedded at build time.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the canonical command name. It appears in help text and in the
	// default config and cache paths.
	Name = "vecu"
	// Description is a short summary used in help output.
	Description = "Build ordered lists from values and spread sequences"
)

// AuthorInfo represents an author's name and email address.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
