package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zitadel/logging"

	"github.com/authing/authing-go-sdk/v3/example/client/config"
	"github.com/authing/authing-go-sdk/v3/pkg/client/authentication"
	httphelper "github.com/authing/authing-go-sdk/v3/pkg/http"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

var (
	callbackPath = "/auth/callback"
	key          = []byte("test1234test1234")
)

func main() {
	cfg := config.FromEnvVars(&config.Config{
		Port:   config.DefaultPort,
		Host:   authentication.DefaultHost,
		Scopes: []string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail},
	})

	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		}),
	)

	redirectURI := fmt.Sprintf("http://localhost:%v%v", cfg.Port, callbackPath)
	cookieHandler := httphelper.NewCookieHandler(key, key, httphelper.WithInsecureCookies())

	client, err := authentication.NewClient(authentication.Config{
		AppID:             cfg.AppID,
		AppSecret:         cfg.AppSecret,
		Host:              cfg.Host,
		Protocol:          oidc.Protocol(cfg.Protocol),
		RedirectURI:       redirectURI,
		LogoutRedirectURI: fmt.Sprintf("http://localhost:%v/", cfg.Port),
	},
		authentication.WithPKCE(cookieHandler),
		authentication.WithLogger(logger),
	)
	if err != nil {
		logger.Error("error creating authentication client", "error", err)
		os.Exit(1)
	}

	// generate some state (representing the state of the user in your application,
	// e.g. the page where he was before sending him to login
	state := func() string {
		return uuid.New().String()
	}

	router := chi.NewRouter()
	router.Use(logging.Middleware(
		logging.WithLogger(logger),
		logging.WithGroup("server"),
		logging.WithIDFunc(func() slog.Attr {
			return slog.String("id", uuid.NewString())
		}),
	))

	// register the AuthURLHandler at your preferred path.
	// the AuthURLHandler creates the auth request and redirects the user to the platform,
	// state and code verifier are stored in secure cookies
	router.Handle("/login", authentication.AuthURLHandler(state, client, authentication.WithScope(cfg.Scopes...)))

	// for demonstration purposes the returned userinfo response is written as JSON object onto response
	marshalUserinfo := func(w http.ResponseWriter, r *http.Request, tokens *oidc.Tokens, state string, c *authentication.Client, info *oidc.UserInfo) {
		data, err := json.Marshal(map[string]any{
			"tokens":   tokens,
			"userinfo": info,
			"state":    state,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "application/json")
		w.Write(data)
	}

	// register the CodeExchangeHandler at the callbackPath
	// the CodeExchangeHandler handles the auth response, creates the token request and calls the callback function
	// with the returned tokens from the token endpoint
	// in this example the callback function itself is wrapped by the UserinfoCallback which
	// will call the Userinfo endpoint, check the sub and pass the info into the callback function
	router.Handle(callbackPath, authentication.CodeExchangeHandler(authentication.UserinfoCallback(marshalUserinfo), client))

	router.Get("/logout", func(w http.ResponseWriter, r *http.Request) {
		logoutURL, err := client.BuildLogoutURL(
			authentication.WithIDTokenHint(r.URL.Query().Get("id_token")),
			authentication.WithLogoutRedirectURI(client.Config().LogoutRedirectURI),
		)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, logoutURL, http.StatusFound)
	})

	lis := fmt.Sprintf("127.0.0.1:%s", cfg.Port)
	logger.Info("server listening, press ctrl+c to stop", "addr", lis)
	server := &http.Server{
		Addr:              lis,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error("server terminated", "error", err)
		os.Exit(1)
	}
}
