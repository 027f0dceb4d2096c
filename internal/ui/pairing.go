package ui

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/zalando/go-keyring"
)

// PairingToken returns the token a phone must present on POST /config. It is
// created on first use and kept in the OS keyring. An empty string means the
// keyring is unavailable and the endpoint stays open.
func (app *WatchApp) PairingToken() string {
	log := slog.With(config.LogKeyComponent, config.CompUI)

	token, err := keyring.Get(config.KeyringService, config.KeyringPairingKey)
	if err == nil && token != "" {
		return token
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		log.Warn(config.MsgAuthDisabled, config.LogKeyError, err)
		return ""
	}

	token = uuid.NewString()
	if err := keyring.Set(config.KeyringService, config.KeyringPairingKey, token); err != nil {
		log.Warn(config.MsgAuthDisabled, config.LogKeyError, err)
		return ""
	}

	log.Info(config.MsgTokenCreated)
	return token
}

// ResetPairingToken replaces the stored token and pushes it to the server.
func (app *WatchApp) ResetPairingToken() string {
	if err := keyring.Delete(config.KeyringService, config.KeyringPairingKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Warn(config.ErrKeyringWrite, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
	}
	token := app.PairingToken()
	if app.Server != nil {
		app.Server.SetToken(token)
	}
	return token
}
