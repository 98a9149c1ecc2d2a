package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"policfy-be/internal/config"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newGoogleStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		tokens := map[string]string{"good-code": "stub-access", "unverified-code": "stub-unverified"}
		access, ok := tokens[r.Form.Get("code")]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": access,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Header.Get("Authorization") {
		case "Bearer stub-access":
			_, _ = w.Write([]byte(`{"id":"g-1","email":"hana@example.com","verified_email":true,"name":"Hana"}`))
		case "Bearer stub-unverified":
			_, _ = w.Write([]byte(`{"id":"g-2","email":"root@policfy.io","verified_email":false,"name":"Mallory"}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newStubbedOAuth(t *testing.T) *oauthService {
	t.Helper()
	stub := newGoogleStub(t)
	auth, _, _ := newAuthFixture()

	svc := NewOAuthService(config.OAuthConfig{
		GoogleClientID:     "client",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "http://localhost/api/auth/google/callback",
	}, auth, logger.NewNop()).(*oauthService)

	endpoint := oauth2.Endpoint{AuthURL: stub.URL + "/auth", TokenURL: stub.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
	svc.googleConf.Endpoint = endpoint
	svc.popupConf.Endpoint = endpoint
	svc.userInfoURL = stub.URL + "/userinfo"
	return svc
}

func TestOAuthService_CallbackRequiresIssuedState(t *testing.T) {
	svc := newStubbedOAuth(t)
	ctx := context.Background()

	_, err := svc.HandleCallback(ctx, "forged", "good-code")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	loginURL, err := svc.GetLoginURL()
	require.NoError(t, err)
	parsed, err := url.Parse(loginURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	res, err := svc.HandleCallback(ctx, state, "good-code")
	require.NoError(t, err)
	assert.Equal(t, "hana@example.com", res.Email)
	assert.NotEmpty(t, res.Token)

	_, err = svc.HandleCallback(ctx, state, "good-code")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestOAuthService_PopupCode(t *testing.T) {
	svc := newStubbedOAuth(t)

	assert.Equal(t, "postmessage", svc.popupConf.RedirectURL)

	res, err := svc.ExchangePopupCode(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "Hana", res.Name)

	_, err = svc.ExchangePopupCode(context.Background(), "bad-code")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "Google Login failed", err.Error())
}

func TestOAuthService_RejectsUnverifiedEmail(t *testing.T) {
	svc := newStubbedOAuth(t)

	_, err := svc.ExchangePopupCode(context.Background(), "unverified-code")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "Google Login failed", err.Error())

	res, err := svc.ExchangePopupCode(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "hana@example.com", res.Email)
}
