// Copyright (c) 2025 LegalAI Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package registry

// RefKind distinguishes a human filename from a server-issued identifier.
type RefKind string

const (
	// RefName is a filename to be resolved through the registry.
	RefName RefKind = "name"

	// RefID is an already-resolved backend identifier, used verbatim.
	RefID RefKind = "id"
)

// FileRef is a tagged reference to an uploaded document. Carrying the kind
// explicitly avoids guessing whether a string is a filename or an
// identifier at the point of use.
type FileRef struct {
	Kind  RefKind
	Value string
}

// NameRef builds a filename reference.
func NameRef(name string) FileRef {
	return FileRef{Kind: RefName, Value: name}
}

// IDRef builds an identifier reference.
func IDRef(id string) FileRef {
	return FileRef{Kind: RefID, Value: id}
}

// IsZero reports whether the reference is empty.
func (r FileRef) IsZero() bool {
	return r.Value == ""
}

// ParseFileRef classifies a bare string the way older callers did: anything
// containing a dot is taken for a filename, since documents in this domain
// always carry an extension. New code should construct a tagged FileRef
// directly instead of relying on this.
func ParseFileRef(s string) FileRef {
	for _, r := range s {
		if r == '.' {
			return NameRef(s)
		}
	}
	return IDRef(s)
}
