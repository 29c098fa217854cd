package credentials

import (
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Document is an OAuth client document as downloaded from the Google Cloud
// console ("Desktop app" client ID). Exactly one of the installed or web
// sections is expected to be populated.
type Document struct {
	Installed *Client `json:"installed"`
	Web       *Client `json:"web"`
}

// Client carries the public client identity and the provider endpoints
// needed to start an authorization flow.
type Client struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURI      string   `json:"auth_uri"`
	TokenURI     string   `json:"token_uri"`
	RedirectURIs []string `json:"redirect_uris"`
}

// Parse decodes and validates a client credential document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	client := doc.Client()
	if client == nil {
		return nil, fmt.Errorf(`credentials JSON has neither an "installed" nor a "web" section`)
	}
	if client.ClientID == "" {
		return nil, fmt.Errorf("credentials JSON is missing client_id")
	}
	return &doc, nil
}

// Client returns the active client section, preferring "installed".
func (d *Document) Client() *Client {
	if d.Installed != nil {
		return d.Installed
	}
	return d.Web
}

// TokenEndpoint returns the document's token URI, falling back to Google's
// endpoint when the document omits one.
func (c *Client) TokenEndpoint() string {
	if c.TokenURI != "" {
		return c.TokenURI
	}
	return google.Endpoint.TokenURL
}

// OAuthConfig builds the oauth2 configuration for the requested scopes.
// Documents without endpoint URIs fall back to the Google endpoints.
func (c *Client) OAuthConfig(scopes ...string) *oauth2.Config {
	endpoint := google.Endpoint
	if c.AuthURI != "" && c.TokenURI != "" {
		endpoint = oauth2.Endpoint{
			AuthURL:  c.AuthURI,
			TokenURL: c.TokenURI,
		}
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}
