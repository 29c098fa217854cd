package authflow

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	_ "embed"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/michaellee1019/working-wheel/internal/logger"
)

//go:embed done.html
var doneHTML []byte

// DefaultTimeout bounds the callback wait when Options leaves it unset.
const DefaultTimeout = 5 * time.Minute

// Options tunes a single authorization attempt.
type Options struct {
	// Timeout bounds the wait for the provider redirect. Zero means
	// DefaultTimeout.
	Timeout time.Duration
	// Port fixes the loopback listener port; zero picks an ephemeral one.
	Port int
	// OpenBrowser launches the user's browser on the consent URL.
	// Defaults to pkg/browser. Tests substitute it.
	OpenBrowser func(url string) error
}

// Authorize runs the installed-application loopback flow: it starts a
// listener on localhost, opens the user's browser on the provider consent
// URL (with PKCE and a state parameter), waits for the redirect carrying
// the authorization code and exchanges it for a token. The call is
// synchronous and returns after consent, denial, timeout, or ctx
// cancellation.
func Authorize(ctx context.Context, conf *oauth2.Config, opts Options) (*oauth2.Token, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	open := opts.OpenBrowser
	if open == nil {
		open = browser.OpenURL
	}

	listener, err := net.Listen("tcp4", fmt.Sprintf("127.0.0.1:%d", opts.Port))
	if err != nil {
		return nil, errors.Wrap(err, "starting loopback listener")
	}
	defer listener.Close()

	verifier, err := randomToken()
	if err != nil {
		return nil, err
	}
	state, err := randomToken()
	if err != nil {
		return nil, err
	}

	// The redirect must hit the port we actually got.
	flowConf := *conf
	flowConf.RedirectURL = "http://" + listener.Addr().String()

	type outcome struct {
		tok *oauth2.Token
		err error
	}
	results := make(chan outcome, 1)
	var once sync.Once
	report := func(tok *oauth2.Token, err error) {
		once.Do(func() { results <- outcome{tok: tok, err: err} })
	}

	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/" && req.URL.Path != "" {
				// e.g. /favicon.ico
				http.NotFound(w, req)
				return
			}

			if errCode := req.FormValue("error"); errCode != "" {
				http.Error(w, "authorization failed: "+errCode, http.StatusUnauthorized)
				report(nil, &DeniedError{Code: errCode})
				return
			}

			if req.FormValue("state") != state {
				http.Error(w, "state mismatch", http.StatusUnauthorized)
				report(nil, errors.New("state parameter mismatch on callback"))
				return
			}

			code := req.FormValue("code")
			if code == "" {
				http.Error(w, "missing authorization code", http.StatusBadRequest)
				report(nil, errors.New("callback carried neither code nor error"))
				return
			}

			tok, err := flowConf.Exchange(ctx, code,
				oauth2.SetAuthURLParam("code_verifier", verifier))
			if err != nil {
				http.Error(w, "token exchange failed", http.StatusBadGateway)
				report(nil, &NetworkError{Op: "token exchange", Err: err})
				return
			}

			http.ServeContent(w, req, "done.html", time.Time{}, bytes.NewReader(doneHTML))
			report(tok, nil)
		}),
	}

	go func() {
		if serveErr := srv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			logger.Debug("callback server stopped", "error", serveErr)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := flowConf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.SetAuthURLParam("code_challenge", challengeS256(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	logger.Debug("opening browser for consent", "url", authURL)
	if err := open(authURL); err != nil {
		return nil, errors.Wrap(err, "opening browser on consent URL")
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, &CallbackTimeoutError{Wait: timeout}
	case out := <-results:
		return out.tok, out.err
	}
}

func randomToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", errors.Wrap(err, "generating random token")
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}

func challengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
