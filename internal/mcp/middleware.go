package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const (
	keyNameKey contextKey = iota
	sessionIDKey
)

// getKeyName returns the name of the API key the call was made with.
func getKeyName(ctx context.Context) string {
	v, _ := ctx.Value(keyNameKey).(string)
	return v
}

func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

// KeyResolver resolves an API key name from a bearer token.
type KeyResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver KeyResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Protocol handshakes carry no credentials.
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", ErrUnauthorized)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
			}

			name, err := resolver.Resolve(ctx, token)
			if err != nil || name == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", ErrUnauthorized)
			}

			ctx = context.WithValue(ctx, keyNameKey, name)
			return next(ctx, method, req)
		}
	}
}

// localMiddleware names stdio callers, which are trusted.
func localMiddleware(name string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(context.WithValue(ctx, keyNameKey, name), method, req)
		}
	}
}

// sessionMiddleware extracts session ID from Mcp-Session-Id header (HTTP) or metadata (stdio).
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var sessionID string
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				sessionID = extra.Header.Get("Mcp-Session-Id")
			}

			// Some notifications have nil params behind a non-nil interface.
			if sessionID == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if sid, ok := meta["session_id"].(string); ok {
								sessionID = sid
							}
						}
					}()
				}
			}

			if sessionID != "" {
				ctx = context.WithValue(ctx, sessionIDKey, sessionID)
			}
			return next(ctx, method, req)
		}
	}
}
