package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
)

// OOB is the out-of-band redirect target: the provider shows the
// authorization code to the user instead of redirecting.
const OOB = "urn:ietf:wg:oauth:2.0:oob"

// ConsentConfig builds the OAuth2 configuration used to produce the
// provider consent URL. Only the read-only calendar scope is requested; the
// resulting code or token is treated as an opaque credential.
func ConsentConfig(clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    google.Endpoint,
		RedirectURL: OOB,
		Scopes: []string{
			calendarapi.CalendarReadonlyScope,
		},
	}
}

// PromptAuthorizer implements Authorizer for CLI usage: it prints the
// consent URL and reads the authorization code from the input stream. An
// empty line aborts with ErrCancelled. With TokenBased set, the pasted
// value is treated as a provider access token instead of a code.
type PromptAuthorizer struct {
	Config     *oauth2.Config
	In         io.Reader
	Out        io.Writer
	TokenBased bool
}

// Authorize prompts for and returns the authorization code.
func (a *PromptAuthorizer) Authorize(ctx context.Context) (Credential, error) {
	url := a.Config.AuthCodeURL("state", oauth2.AccessTypeOffline)
	fmt.Fprintf(a.Out, "Visit the URL below, grant access, then paste the code here:\n%s\n\nCode: ", url)

	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		scanner := bufio.NewScanner(a.In)
		if !scanner.Scan() {
			ch <- result{err: scanner.Err()}
			return
		}
		ch <- result{code: strings.TrimSpace(scanner.Text())}
	}()

	select {
	case <-ctx.Done():
		return Credential{}, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return Credential{}, &ProviderError{Reason: res.err.Error()}
		}
		if res.code == "" {
			return Credential{}, ErrCancelled
		}
		if a.TokenBased {
			return Credential{AccessToken: res.code}, nil
		}
		return Credential{AuthCode: res.code}, nil
	}
}

// StaticAuthorizer implements Authorizer with a pre-obtained credential,
// for non-interactive use where the sign-in happened elsewhere.
type StaticAuthorizer struct {
	Credential Credential
}

// Authorize returns the stored credential.
func (a *StaticAuthorizer) Authorize(ctx context.Context) (Credential, error) {
	if a.Credential.AuthCode == "" && a.Credential.AccessToken == "" {
		return Credential{}, &ProviderError{Reason: "no credential configured"}
	}
	return a.Credential, nil
}
