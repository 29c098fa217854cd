package payload

import (
	"encoding/json"

	"golang.org/x/oauth2"

	"github.com/michaellee1019/working-wheel/internal/credentials"
)

// Credentials mirrors the document the host module's set_credentials
// command parses. Key names and nesting are a wire contract; do not
// reshape.
type Credentials struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes"`
}

// Payload is the full command document handed to the host module.
type Payload struct {
	SetCredentials Credentials `json:"set_credentials"`
}

// Build assembles the payload from a token grant and the client document
// that produced it.
func Build(tok *oauth2.Token, client *credentials.Client, scopes []string) *Payload {
	return &Payload{
		SetCredentials: Credentials{
			Token:        tok.AccessToken,
			RefreshToken: tok.RefreshToken,
			TokenURI:     client.TokenEndpoint(),
			ClientID:     client.ClientID,
			ClientSecret: client.ClientSecret,
			Scopes:       scopes,
		},
	}
}

// Render pretty-prints the payload for the console and the clipboard.
func (p *Payload) Render() (string, error) {
	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
