package common

// SessionCookieName is the cookie carrying the signed session token for
// browser clients.
const SessionCookieName = "session_token"

// AuthorizationHeaderName carries "Bearer <token>" for non-browser clients.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the session token in the Authorization header.
const BearerPrefix = "Bearer "
