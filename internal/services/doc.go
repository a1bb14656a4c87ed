// Package services implements the authenticated read path against the Spotify Web API.
//
// # Client
//
// [SpotifyClient] implements [Client] with four reads: the user profile, the user's playlists,
// a playlist's tracks (by the opaque href returned in the playlists response), and track search.
// Every request attaches the bearer token from a [TokenSource]; when no token is available the
// call returns [shared.ErrUnauthenticated] without touching the network.
//
// Requests are paced with a token bucket from golang.org/x/time/rate. There is no retry.
//
// # Error Handling
//
// Failures are reported as [*HTTPError] with a [ErrorKind]:
//   - [KindTransport] : the request never produced a response ([shared.ErrTransport])
//   - [KindStatus] : non-2xx response ([shared.ErrHTTPStatus]; 401 also matches [shared.ErrTokenExpired])
//   - [KindMalformed] : undecodable JSON or a missing envelope field ([shared.ErrMalformedResponse])
//
// # Authentication
//
// [NewAuthenticator] builds a spotifyauth.Authenticator with the read-only scopes this client needs.
// It is used by the CLI login flow and as the session's token refresher.
package services
