package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"
)

// handleEventQR returns a PNG QR code pointing at the event's voting page,
// for organizer handouts and signage.
func (h *Handlers) handleEventQR(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseIntParam(r, "event")
	if err != nil {
		h.respondError(w, err)
		return
	}

	// 404 when the event does not exist or has no active voting config
	if _, err := h.Config.Resolve(r.Context(), eventID); err != nil {
		h.respondError(w, err)
		return
	}

	votingURL := fmt.Sprintf("%s/events/%d/vote", strings.TrimSuffix(h.BaseURL, "/"), eventID)
	png, err := qrcode.Encode(votingURL, qrcode.Medium, 256)
	if err != nil {
		h.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
