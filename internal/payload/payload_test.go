package payload

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/michaellee1019/working-wheel/internal/credentials"
)

func sampleGrant() (*oauth2.Token, *credentials.Client, []string) {
	tok := &oauth2.Token{
		AccessToken:  "ya29.abc",
		RefreshToken: "1//xyz",
	}
	client := &credentials.Client{
		ClientID:     "123.apps.googleusercontent.com",
		ClientSecret: "s3cr3t",
		TokenURI:     "https://oauth2.googleapis.com/token",
	}
	scopes := []string{"https://www.googleapis.com/auth/calendar.readonly"}
	return tok, client, scopes
}

func TestBuildRendersExactShape(t *testing.T) {
	tok, client, scopes := sampleGrant()

	rendered, err := Build(tok, client, scopes).Render()
	require.NoError(t, err)

	want := `{
  "set_credentials": {
    "token": "ya29.abc",
    "refresh_token": "1//xyz",
    "token_uri": "https://oauth2.googleapis.com/token",
    "client_id": "123.apps.googleusercontent.com",
    "client_secret": "s3cr3t",
    "scopes": [
      "https://www.googleapis.com/auth/calendar.readonly"
    ]
  }
}`
	require.Equal(t, want, rendered)
}

func TestBuildFallsBackToGoogleTokenURI(t *testing.T) {
	tok, client, scopes := sampleGrant()
	client.TokenURI = ""

	p := Build(tok, client, scopes)
	require.Equal(t, "https://oauth2.googleapis.com/token", p.SetCredentials.TokenURI)
}

func TestEmitPrintsAndCopies(t *testing.T) {
	tok, client, scopes := sampleGrant()
	p := Build(tok, client, scopes)

	var out bytes.Buffer
	var copied string
	e := &Emitter{
		Out:  &out,
		Copy: func(text string) error { copied = text; return nil },
	}

	require.NoError(t, e.Emit(p, true))

	rendered, err := p.Render()
	require.NoError(t, err)
	require.Contains(t, out.String(), rendered)
	require.Equal(t, rendered, copied)
	require.Contains(t, out.String(), "copied to clipboard")
}

func TestEmitClipboardFailureIsNonFatal(t *testing.T) {
	tok, client, scopes := sampleGrant()
	p := Build(tok, client, scopes)

	var out bytes.Buffer
	e := &Emitter{
		Out:  &out,
		Copy: func(string) error { return errors.New("no display server") },
	}

	// The run must still succeed: stdout already carries the payload.
	require.NoError(t, e.Emit(p, true))
	require.Contains(t, out.String(), `"token": "ya29.abc"`)
	require.Contains(t, out.String(), "Could not copy to clipboard")
}

func TestEmitSkipsClipboardWhenDisabled(t *testing.T) {
	tok, client, scopes := sampleGrant()
	p := Build(tok, client, scopes)

	var out bytes.Buffer
	called := false
	e := &Emitter{
		Out:  &out,
		Copy: func(string) error { called = true; return nil },
	}

	require.NoError(t, e.Emit(p, false))
	require.False(t, called)
	require.Contains(t, out.String(), `"refresh_token": "1//xyz"`)
}
