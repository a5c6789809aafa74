package common

// SessionCookieName names the cookie (and header) carrying the session
// assertion as "Bearer <token>".
const SessionCookieName = "Authorization"

// ClientHeaderName marks the request origin. When it carries
// NonBrowserClient the token is read from the Authorization header instead of
// the cookie.
const ClientHeaderName = "client"

// NonBrowserClient is the ClientHeaderName value sent by non-browser clients.
const NonBrowserClient = "not-browser"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"
