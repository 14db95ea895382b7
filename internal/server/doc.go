// Package server provides HTTP routing, middleware, the site's page handlers and OAuth callback handling.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] registers routes on an
// [http.ServeMux] using method patterns ("GET /study/{entry_id}") and wraps the whole mux in the middleware stack,
// so middleware such as [NormalizePath] runs before a route is chosen.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// # Site
//
// [Pages] serves the calendar, learn, study, YouTube, copyright and robots routes and falls back to static files.
// [ErrorPages] replaces every 404 response with the rendered partials/404 template, or a plain-text message if
// that template cannot be rendered.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow used by `callouts auth youtube`.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel. It only processes one callback to prevent replay attacks.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
