package authflow

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "123.apps.googleusercontent.com",
		ClientSecret: "s3cr3t",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/o/auth",
			TokenURL: tokenURL,
		},
		Scopes: []string{"https://www.googleapis.com/auth/calendar.readonly"},
	}
}

// fakeBrowser stands in for the user's browser: it records the consent URL
// and fires the given callback request against the loopback listener.
func fakeBrowser(t *testing.T, consent *url.Values, redirect *string, callback func(redirectURL string, query url.Values)) func(string) error {
	t.Helper()
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		if consent != nil {
			*consent = q
		}
		if redirect != nil {
			*redirect = q.Get("redirect_uri")
		}
		if callback != nil {
			go callback(q.Get("redirect_uri"), q)
		}
		return nil
	}
}

func get(redirectURL string, params url.Values) {
	resp, err := http.Get(redirectURL + "/?" + params.Encode())
	if err == nil {
		resp.Body.Close()
	}
}

func TestAuthorizeSuccess(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"ya29.abc","refresh_token":"1//xyz","token_type":"Bearer","expires_in":3599}`)
	}))
	defer provider.Close()

	var consent url.Values
	open := fakeBrowser(t, &consent, nil, func(redirectURL string, q url.Values) {
		get(redirectURL, url.Values{"state": {q.Get("state")}, "code": {"authcode123"}})
	})

	tok, err := Authorize(context.Background(), testConfig(provider.URL), Options{
		Timeout:     5 * time.Second,
		OpenBrowser: open,
	})
	require.NoError(t, err)
	require.Equal(t, "ya29.abc", tok.AccessToken)
	require.Equal(t, "1//xyz", tok.RefreshToken)

	// Consent URL must request offline access and carry PKCE.
	require.Equal(t, "offline", consent.Get("access_type"))
	require.Equal(t, "S256", consent.Get("code_challenge_method"))
	require.NotEmpty(t, consent.Get("code_challenge"))
	require.NotEmpty(t, consent.Get("state"))
	require.Contains(t, consent.Get("scope"), "calendar.readonly")
	require.True(t, strings.HasPrefix(consent.Get("redirect_uri"), "http://127.0.0.1:"))
}

func TestAuthorizeDenied(t *testing.T) {
	open := fakeBrowser(t, nil, nil, func(redirectURL string, q url.Values) {
		get(redirectURL, url.Values{"error": {"access_denied"}})
	})

	_, err := Authorize(context.Background(), testConfig("https://unused.example.com/token"), Options{
		Timeout:     5 * time.Second,
		OpenBrowser: open,
	})

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	require.Equal(t, "access_denied", denied.Code)
	require.EqualError(t, err, "authorization denied by user")
}

func TestAuthorizeStateMismatchRejected(t *testing.T) {
	open := fakeBrowser(t, nil, nil, func(redirectURL string, q url.Values) {
		get(redirectURL, url.Values{"state": {"wrong-state"}, "code": {"authcode123"}})
	})

	_, err := Authorize(context.Background(), testConfig("https://unused.example.com/token"), Options{
		Timeout:     5 * time.Second,
		OpenBrowser: open,
	})
	require.ErrorContains(t, err, "state parameter mismatch")
}

func TestAuthorizeExchangeFailureIsNetworkError(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer provider.Close()

	open := fakeBrowser(t, nil, nil, func(redirectURL string, q url.Values) {
		get(redirectURL, url.Values{"state": {q.Get("state")}, "code": {"authcode123"}})
	})

	_, err := Authorize(context.Background(), testConfig(provider.URL), Options{
		Timeout:     5 * time.Second,
		OpenBrowser: open,
	})

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, "token exchange", netErr.Op)
	require.Error(t, netErr.Unwrap())
}

func TestAuthorizeTimeoutTearsDownListener(t *testing.T) {
	var redirect string
	open := fakeBrowser(t, nil, &redirect, nil) // never completes consent

	start := time.Now()
	_, err := Authorize(context.Background(), testConfig("https://unused.example.com/token"), Options{
		Timeout:     200 * time.Millisecond,
		OpenBrowser: open,
	})

	var timeoutErr *CallbackTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 200*time.Millisecond, timeoutErr.Wait)
	require.Less(t, time.Since(start), 5*time.Second)

	// The loopback listener must be gone after the bounded wait.
	require.NotEmpty(t, redirect)
	addr := strings.TrimPrefix(redirect, "http://")
	conn, dialErr := net.DialTimeout("tcp", addr, 100*time.Millisecond)
	if dialErr == nil {
		conn.Close()
		t.Fatalf("listener on %s still accepting connections after timeout", addr)
	}
}

func TestAuthorizeContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	open := fakeBrowser(t, nil, nil, func(string, url.Values) {
		cancel() // the user hits interrupt instead of finishing consent
	})

	_, err := Authorize(ctx, testConfig("https://unused.example.com/token"), Options{
		Timeout:     5 * time.Second,
		OpenBrowser: open,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestAuthorizeBrowserLaunchFailure(t *testing.T) {
	open := func(string) error { return fmt.Errorf("no display") }

	_, err := Authorize(context.Background(), testConfig("https://unused.example.com/token"), Options{
		Timeout:     time.Second,
		OpenBrowser: open,
	})
	require.ErrorContains(t, err, "opening browser")
}
