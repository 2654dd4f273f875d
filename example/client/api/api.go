package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/zitadel/logging"

	"github.com/authing/authing-go-sdk/v3/example/client/config"
	"github.com/authing/authing-go-sdk/v3/pkg/client/authentication"
	"github.com/authing/authing-go-sdk/v3/pkg/client/rs"
	"github.com/authing/authing-go-sdk/v3/pkg/oidc"
)

const (
	publicURL         string = "/public"
	protectedURL      string = "/protected"
	protectedOffline  string = "/protected/offline"
	protectedClaimURL string = "/protected/claim/{claim}/{value}"
)

func main() {
	cfg := config.FromEnvVars(&config.Config{
		Port: config.DefaultPort,
		Host: authentication.DefaultHost,
	})
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	provider, err := rs.NewResourceServer(cfg.Host, cfg.AppID, cfg.AppSecret)
	if err != nil {
		logger.Error("error creating resource server", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(logging.Middleware(logging.WithLogger(logger), logging.WithGroup("api")))

	// public url accessible without any authorization
	// will print `OK` and current timestamp
	router.Get(publicURL, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK " + time.Now().String()))
	})

	// protected url which needs an active token
	// will print the result of the introspection endpoint on success
	router.Get(protectedURL, func(w http.ResponseWriter, r *http.Request) {
		token, ok := checkToken(w, r)
		if !ok {
			return
		}
		resp, err := rs.Introspect(r.Context(), provider, token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if !resp.Active {
			http.Error(w, "token is not active", http.StatusForbidden)
			return
		}
		writeJSON(w, resp)
	})

	// same as protectedURL, but the token is verified against the published JWKS
	// without calling the introspection endpoint
	router.Get(protectedOffline, func(w http.ResponseWriter, r *http.Request) {
		token, ok := checkToken(w, r)
		if !ok {
			return
		}
		claims, err := rs.IntrospectOffline(r.Context(), provider, token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		writeJSON(w, claims)
	})

	// protected url which needs an active token and checks if the response of the introspect endpoint
	// contains a requested claim with the required (string) value
	// e.g. /protected/claim/username/bob
	router.Get(protectedClaimURL, func(w http.ResponseWriter, r *http.Request) {
		token, ok := checkToken(w, r)
		if !ok {
			return
		}
		resp, err := rs.Introspect(r.Context(), provider, token)
		if err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		requestedClaim := chi.URLParam(r, "claim")
		requestedValue := chi.URLParam(r, "value")
		value, ok := resp.Claims[requestedClaim].(string)
		if !ok || value == "" || value != requestedValue {
			http.Error(w, "claim does not match", http.StatusForbidden)
			return
		}
		w.Write([]byte("authorized with value " + value))
	})

	lis := fmt.Sprintf("127.0.0.1:%s", cfg.Port)
	logger.Info("listening", "addr", "http://"+lis+"/")
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

func checkToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	auth := r.Header.Get("authorization")
	if auth == "" {
		http.Error(w, "auth header missing", http.StatusUnauthorized)
		return "", false
	}
	token, ok := strings.CutPrefix(auth, oidc.BearerToken+" ")
	if !ok {
		http.Error(w, "invalid header", http.StatusUnauthorized)
		return "", false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.Write(data)
}
