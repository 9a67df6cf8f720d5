package identity

import "net/url"

// AnonymousName is the display-name fallback when the handshake omits one.
const AnonymousName = "Anonymous"

// Identity is the trusted user identity carried by a connection for its
// whole lifetime. It is resolved once from the handshake and never changes.
type Identity struct {
	UserID      string
	DisplayName string
}

// Resolve extracts the identity from the handshake query parameters.
// Extra fields (photo, email, ...) are accepted and ignored. A missing uid
// yields an unauthenticated identity; the connection itself stays usable.
func Resolve(query url.Values) Identity {
	id := Identity{
		UserID:      query.Get("uid"),
		DisplayName: query.Get("name"),
	}
	if id.DisplayName == "" {
		id.DisplayName = AnonymousName
	}
	return id
}

// Authenticated reports whether the handshake supplied a user id.
func (id Identity) Authenticated() bool { return id.UserID != "" }
