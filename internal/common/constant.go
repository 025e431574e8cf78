package common

// SessionCookieName is the cookie the identity provider sets with the signed
// session token.
const SessionCookieName = "__session"

// CookieMetadataKey is the gRPC metadata key carrying the raw Cookie header
// forwarded by browser-facing proxies.
const CookieMetadataKey = "cookie"
