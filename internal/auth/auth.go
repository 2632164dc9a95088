// Package auth verifies identity tokens issued by the identity provider and
// carries the resulting identity through request contexts.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/hebed-ai/hebed/internal/model"
)

// Claims are the token claims the identity provider issues
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 tokens signed with the provider's shared secret
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses a token and returns the identity it carries
func (v *Verifier) Verify(token string) (*model.Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(model.ErrUnauthenticated, err.Error())
	}

	if claims.Subject == "" {
		return nil, errors.Wrap(model.ErrUnauthenticated, "token has no subject")
	}

	return &model.Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   model.Role(claims.Role),
	}, nil
}

// Issue signs a token for an identity. Used by tooling and tests; production tokens come
// from the identity provider.
func (v *Verifier) Issue(identity model.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: identity.Email,
		Role:  string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// FromHeader verifies the bearer token in an Authorization header
func (v *Verifier) FromHeader(header http.Header) (*model.Identity, error) {
	value := header.Get("Authorization")
	token := strings.TrimPrefix(value, "Bearer ")
	if value == "" || token == value {
		return nil, errors.Wrap(model.ErrUnauthenticated, "missing bearer token")
	}
	return v.Verify(token)
}

// Interceptor authenticates every unary RPC and stores the identity in the context
func (v *Verifier) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if req.Spec().IsClient {
				return next(ctx, req)
			}

			identity, err := v.FromHeader(req.Header())
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithIdentity(ctx, identity), req)
		}
	}
}

// Middleware authenticates plain HTTP routes
func (v *Verifier) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := v.FromHeader(c.Request.Header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// FromContext returns the identity stored in ctx, or model.ErrUnauthenticated
func FromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityKey{}).(*model.Identity)
	if !ok || identity == nil {
		return nil, model.ErrUnauthenticated
	}
	return identity, nil
}

// RequireRole returns the caller's identity when it carries role, model.ErrForbidden otherwise
func RequireRole(ctx context.Context, role model.Role) (*model.Identity, error) {
	identity, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	if identity.Role != role {
		return nil, errors.Wrapf(model.ErrForbidden, "requires role %s", role)
	}
	return identity, nil
}
