package identity

import (
	"github.com/chiptune-stack/chiptune/internal/secrets"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// SignInScopes are requested by the test sign-in link.
var SignInScopes = []string{"openid", "email", "profile"}

// SignInTestURL returns a Google authorization URL that redirects to the app's callback.
// Google only accepts it once the client lists that callback as an authorized redirect URI.
func SignInTestURL(clientID, callbackURL string) (string, error) {
	state, err := secrets.RandomHex(16)
	if err != nil {
		return "", err
	}
	cfg := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    endpoints.Google,
		RedirectURL: callbackURL,
		Scopes:      SignInScopes,
	}
	return cfg.AuthCodeURL(state), nil
}
