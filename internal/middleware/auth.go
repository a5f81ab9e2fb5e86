package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	jwtvalidator "github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "mosquefund/internal/errors"
	"mosquefund/internal/logger"
	"mosquefund/internal/models"
	"mosquefund/internal/policy"
	"mosquefund/internal/response"
)

const actorKey = "actor"

// Identity is what the identity provider vouches for in a bearer token.
type Identity struct {
	Subject string
	Email   string
}

// TokenVerifier validates a bearer token and returns its identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ProfileResolver loads the local profile (role, status) of an identity.
type ProfileResolver interface {
	GetProfile(ctx context.Context, id string) (*models.User, error)
}

// identityClaims carries the non-registered claims the provider issues.
type identityClaims struct {
	Email string `json:"email"`
}

// Validate implements jwtvalidator.CustomClaims.
func (c *identityClaims) Validate(ctx context.Context) error {
	return nil
}

// HS256Verifier verifies tokens signed with the provider's shared secret.
type HS256Verifier struct {
	secret   []byte
	audience string
	issuer   string
}

// NewHS256Verifier creates an HS256Verifier. Empty audience or issuer skip
// the corresponding check.
func NewHS256Verifier(secret, audience, issuer string) *HS256Verifier {
	return &HS256Verifier{secret: []byte(secret), audience: audience, issuer: issuer}
}

type hs256Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify implements TokenVerifier.
func (v *HS256Verifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Minute),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &hs256Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return &Identity{Subject: claims.Subject, Email: claims.Email}, nil
}

// JWKSVerifier verifies asymmetrically signed tokens against the provider's
// published key set. Keys are cached and refreshed by the provider.
type JWKSVerifier struct {
	validator *jwtvalidator.Validator
}

// NewJWKSVerifier creates a JWKSVerifier for tokens issued by issuer and
// signed with algorithm (e.g. ES256, RS256).
func NewJWKSVerifier(jwksURL, issuer, audience, algorithm string) (*JWKSVerifier, error) {
	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer URL: %w", err)
	}
	keysURL, err := url.Parse(jwksURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute, jwks.WithCustomJWKSURI(keysURL))

	v, err := jwtvalidator.New(
		provider.KeyFunc,
		jwtvalidator.SignatureAlgorithm(algorithm),
		issuer,
		[]string{audience},
		jwtvalidator.WithCustomClaims(func() jwtvalidator.CustomClaims {
			return &identityClaims{}
		}),
		jwtvalidator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}
	return &JWKSVerifier{validator: v}, nil
}

// Verify implements TokenVerifier.
func (v *JWKSVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	validated, ok := claims.(*jwtvalidator.ValidatedClaims)
	if !ok || validated.RegisteredClaims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	identity := &Identity{Subject: validated.RegisteredClaims.Subject}
	if custom, ok := validated.CustomClaims.(*identityClaims); ok {
		identity.Email = custom.Email
	}
	return identity, nil
}

// AuthMiddleware resolves the bearer token to an actor on every request:
// token → identity → profile. The actor is stored on the context for the
// authorization middleware and handlers.
func AuthMiddleware(verifier TokenVerifier, profiles ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			response.Abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			logger.Get().Debugw("token verification failed", "error", err)
			response.Abort(c, apperrors.ErrInvalidToken)
			return
		}

		user, err := profiles.GetProfile(c.Request.Context(), identity.Subject)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && appErr.Code == apperrors.ErrUserNotFound.Code {
				response.Abort(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "No profile exists for this identity"))
				return
			}
			response.Abort(c, err)
			return
		}

		actor := &policy.Actor{
			ID:       user.ID,
			Email:    identity.Email,
			Role:     user.Role,
			IsActive: user.IsActive,
		}
		if actor.Email == "" {
			actor.Email = user.Email
		}
		if !actor.IsActive {
			response.Abort(c, apperrors.ErrAccountInactive)
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated actor, or nil outside AuthMiddleware.
func ActorFrom(c *gin.Context) *policy.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(*policy.Actor); ok {
			return actor
		}
	}
	return nil
}

// SetActor stores an actor on the context. Tests use it to bypass token
// verification.
func SetActor(c *gin.Context, actor *policy.Actor) {
	c.Set(actorKey, actor)
}
