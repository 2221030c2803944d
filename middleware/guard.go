package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/midroc-erp/authcore"
	"github.com/midroc-erp/authcore/rbac"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the identity a guard injected for this
// request.
func AuthResultFromContext(ctx context.Context) (*authcore.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*authcore.AuthResult)
	return res, ok
}

// Guard verifies the Authorization bearer token against the engine and
// injects the validated identity into the request context. Missing or
// invalid tokens answer 401.
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.ValidateToken(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission wraps Guard with a permission-token check against
// the given tables. Identities lacking the permission answer 403.
func RequirePermission(engine *authcore.Engine, tables *rbac.Registry, perm rbac.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok || !tables.HasPermission(res.Role, perm) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// RequireModule wraps Guard with a module-access check against the
// given tables. Identities whose role may not view the module answer
// 403.
func RequireModule(engine *authcore.Engine, tables *rbac.Registry, module rbac.Module) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok || !tables.AllowsModule(module, res.Role) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
