// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookieName holds queued one-time notices until the next render.
// Flashes ride a cookie rather than Valkey so they also work for visitors
// without a session (e.g. the post-registration notice on the login page).
const FlashCookieName = "wl_flash"

// Flash is a one-time notification message displayed on the next page render.
type Flash struct {
	Type    string `json:"type"` // "success", "error", "warning", "info"
	Message string `json:"message"`
}

// AddFlash queues a notification for display on the next rendered page.
// Existing queued flashes on the request are preserved.
func AddFlash(w http.ResponseWriter, r *http.Request, flashType, message string) {
	flashes := readFlashes(r)
	flashes = append(flashes, Flash{Type: flashType, Message: message})

	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300, // Flashes not consumed within 5 minutes are dropped.
	})
}

// PopFlashes returns all queued flashes and clears the cookie so each
// message renders exactly once.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return flashes
}

// readFlashes decodes the flash cookie; malformed cookies read as empty.
func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
