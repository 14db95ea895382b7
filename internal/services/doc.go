// Package services talks to the YouTube Data API on behalf of the site server and the CLI.
//
// # YouTube Data API
//
// [YouTubeService] fetches a playlist and every page of its items with plain HTTP GETs against the v3 REST
// endpoints. Requests are paced by a token bucket so a long playlist does not burst through the quota.
//
// # Authentication
//
// The API is called with an installed-app OAuth2 token. [LoadOAuthConfig] reads the client_secret.json
// downloaded from the Google Cloud console, [TokenCache] keeps the token on disk, and [NewAuthenticatedClient]
// returns an [http.Client] whose refreshed tokens are written back to the cache.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no cached token, run `callouts auth youtube`
//   - [shared.ErrAPIRequest] : HTTP request failed or returned a non-2xx status
//   - [shared.ErrPlaylistNotFound] : the playlist lookup returned no items
package services
