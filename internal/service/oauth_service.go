package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"policfy-be/internal/config"
	"policfy-be/internal/dto"
	"policfy-be/internal/pkg/apperror"
	"policfy-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateTTL     = 10 * time.Minute
)

type IOAuthService interface {
	GetLoginURL() (string, error)
	HandleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, error)
	// ExchangePopupCode completes the client-side popup flow, whose codes are
	// issued for the "postmessage" redirect.
	ExchangePopupCode(ctx context.Context, code string) (*dto.AuthResponse, error)
}

type oauthService struct {
	auth        IAuthService
	googleConf  *oauth2.Config
	popupConf   *oauth2.Config
	userInfoURL string
	states      *cache.Cache
	logger      logger.ILogger
}

func NewOAuthService(cfg config.OAuthConfig, auth IAuthService, logger logger.ILogger) IOAuthService {
	conf := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
	popup := *conf
	popup.RedirectURL = "postmessage"

	return &oauthService{
		auth:        auth,
		googleConf:  conf,
		popupConf:   &popup,
		userInfoURL: googleUserInfoURL,
		states:      cache.New(oauthStateTTL, 2*oauthStateTTL),
		logger:      logger,
	}
}

var errGoogleAuthFailed = apperror.New(apperror.ErrUnauthorized, "Google Login failed")

func (s *oauthService) GetLoginURL() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := base64.URLEncoding.EncodeToString(b)
	s.states.SetDefault(state, struct{}{})

	return s.googleConf.AuthCodeURL(state), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, state, code string) (*dto.AuthResponse, error) {
	if _, ok := s.states.Get(state); !ok {
		s.logger.Warn("OAUTH", "Callback with unknown state", nil)
		return nil, apperror.New(apperror.ErrUnauthorized, "Invalid OAuth state")
	}
	s.states.Delete(state)

	return s.exchange(ctx, s.googleConf, code)
}

func (s *oauthService) ExchangePopupCode(ctx context.Context, code string) (*dto.AuthResponse, error) {
	return s.exchange(ctx, s.popupConf, code)
}

type googleUser struct {
	Id            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (s *oauthService) exchange(ctx context.Context, conf *oauth2.Config, code string) (*dto.AuthResponse, error) {
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("OAUTH", "Code exchange failed", map[string]interface{}{"error": err.Error()})
		return nil, errGoogleAuthFailed
	}

	profile, err := s.fetchUser(ctx, conf, tok)
	if err != nil {
		s.logger.Error("OAUTH", "Failed getting user info", map[string]interface{}{"error": err.Error()})
		return nil, errGoogleAuthFailed
	}
	// Accounts are matched by e-mail, so an unproven address could take over one.
	if !profile.VerifiedEmail {
		s.logger.Warn("OAUTH", "Rejected unverified Google e-mail", map[string]interface{}{"email": profile.Email})
		return nil, errGoogleAuthFailed
	}

	return s.auth.SignInExternal(ctx, profile.Name, profile.Email)
}

func (s *oauthService) fetchUser(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (*googleUser, error) {
	resp, err := conf.Client(ctx, tok).Get(s.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var profile googleUser
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
