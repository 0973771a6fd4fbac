package auth

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptAuthorizer(t *testing.T) {
	var out bytes.Buffer
	a := &PromptAuthorizer{
		Config: ConsentConfig("client-id"),
		In:     strings.NewReader("pasted-code\n"),
		Out:    &out,
	}

	cred, err := a.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "pasted-code", cred.AuthCode)
	assert.Empty(t, cred.AccessToken)

	// The prompt carries the consent URL.
	assert.Contains(t, out.String(), "client-id")
	assert.Contains(t, out.String(), "accounts.google.com")
}

func TestPromptAuthorizerTokenBased(t *testing.T) {
	a := &PromptAuthorizer{
		Config:     ConsentConfig("client-id"),
		In:         strings.NewReader("ya29.token\n"),
		Out:        &bytes.Buffer{},
		TokenBased: true,
	}

	cred, err := a.Authorize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ya29.token", cred.AccessToken)
	assert.Empty(t, cred.AuthCode)
}

func TestPromptAuthorizerEmptyLineCancels(t *testing.T) {
	a := &PromptAuthorizer{
		Config: ConsentConfig("client-id"),
		In:     strings.NewReader("\n"),
		Out:    &bytes.Buffer{},
	}

	_, err := a.Authorize(context.Background())
	require.ErrorIs(t, err, ErrCancelled)
}

func TestPromptAuthorizerContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// An input that never produces a line.
	a := &PromptAuthorizer{
		Config: ConsentConfig("client-id"),
		In:     blockingReader{},
		Out:    &bytes.Buffer{},
	}

	_, err := a.Authorize(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// blockingReader blocks forever.
type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}

func TestStaticAuthorizer(t *testing.T) {
	t.Run("auth code", func(t *testing.T) {
		a := &StaticAuthorizer{Credential: Credential{AuthCode: "code"}}
		cred, err := a.Authorize(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "code", cred.AuthCode)
	})

	t.Run("no credential", func(t *testing.T) {
		a := &StaticAuthorizer{}
		_, err := a.Authorize(context.Background())
		var provErr *ProviderError
		require.ErrorAs(t, err, &provErr)
	})
}
