package session

import (
	"net/url"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// OAuthCallback is the payload delivered by the external OAuth broker via
// URL parameters on the redirect back into the app. The access token's
// embedded claims supply the identity; the refresh token rides along for
// the collaborator that will use it later.
type OAuthCallback struct {
	Token        Token
	RefreshToken string
	Identity     Identity
}

// ParseOAuthCallback extracts accessToken and refreshToken from the
// callback URL and decodes the role claims embedded in the access token.
// The result feeds straight into Manager.Login.
func ParseOAuthCallback(u *url.URL) (*OAuthCallback, error) {
	q := u.Query()

	raw := q.Get("accessToken")
	if raw == "" {
		return nil, goerrors.New("callback is missing accessToken", goerrors.CategoryBadInput).
			WithTextCode(TextCodeTokenMalformed).
			WithCode(goerrors.CodeBadRequest)
	}

	claims := &SessionClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	identity := claims.Identity()
	if err := identity.Validate(); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, "callback claims do not form a usable identity").
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	return &OAuthCallback{
		Token:        NewBearerToken(raw),
		RefreshToken: q.Get("refreshToken"),
		Identity:     identity,
	}, nil
}
