package federation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	githubOAuth2 "golang.org/x/oauth2/github"
)

// Overridable in tests to point at an httptest server.
var (
	GithubUserEndpoint       = "https://api.github.com/user"
	GithubUserEmailsEndpoint = "https://api.github.com/user/emails"
)

// githubScopes requests read access to the profile and to the email list.
// The /user payload alone is not enough: its email field is null when the
// user keeps their address private.
var githubScopes = []string{"read:user", "user:email"}

// GitHubProvider implements OAuth2Provider for GitHub.
type GitHubProvider struct {
	clientID     string
	clientSecret string
}

func NewGitHubProvider(clientID, clientSecret string) *GitHubProvider {
	return &GitHubProvider{clientID: clientID, clientSecret: clientSecret}
}

func (g *GitHubProvider) Name() string { return "github" }

func (g *GitHubProvider) config(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       githubScopes,
		Endpoint:     githubOAuth2.Endpoint,
	}
}

func (g *GitHubProvider) AuthCodeURL(state, redirectURL string, opts ...oauth2.AuthCodeOption) string {
	return g.config(redirectURL).AuthCodeURL(state, opts...)
}

func (g *GitHubProvider) ExchangeCode(ctx context.Context, redirectURL, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, ProviderTimeout)
	defer cancel()

	token, err := g.config(redirectURL).Exchange(ctx, code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeCodeFailed, err)
	}
	return token, nil
}

// FetchIdentity fetches the GitHub profile and email list. GitHub numeric
// user IDs are rendered in decimal; the login never substitutes for the ID
// because logins are renameable.
func (g *GitHubProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*ExternalIdentity, error) {
	client := httpClient(ctx, g.config(""), token)

	var profile struct {
		ID        json.Number `json:"id"`
		Login     string      `json:"login"`
		Name      string      `json:"name"`
		AvatarURL string      `json:"avatar_url"`
	}
	if err := getJSON(client, GithubUserEndpoint, &profile); err != nil {
		return nil, err
	}
	if profile.ID.String() == "" {
		return nil, fmt.Errorf("%w: user payload has no id", ErrFetchUserInfoFailed)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, GithubUserEmailsEndpoint, &emails); err != nil {
		return nil, err
	}

	// Only an address that is both primary and verified is acceptable. A
	// verified secondary or an unverified primary does not prove ownership
	// of the account's canonical address.
	var email string
	for _, e := range emails {
		if e.Primary && e.Verified {
			email = e.Email
			break
		}
	}
	if email == "" {
		return nil, ErrNoVerifiedPrimaryEmail
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}

	return &ExternalIdentity{
		Provider:       g.Name(),
		ProviderUserID: profile.ID.String(),
		Email:          email,
		Name:           name,
		Username:       profile.Login,
		PictureURL:     profile.AvatarURL,
	}, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetchUserInfoFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %s returned status %d: %s", ErrFetchUserInfoFailed, url, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrFetchUserInfoFailed, url, err)
	}
	return nil
}

var _ OAuth2Provider = (*GitHubProvider)(nil)
