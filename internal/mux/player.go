package mux

import (
	"errors"
	"net/http"
	"regexp"

	"cardroom-server/internal/jwt"
	"cardroom-server/internal/util"
	"cardroom-server/pkg/ledger"
)

type playerPayload struct {
	DisplayName string `json:"displayName"`
}

type playerWithJWT struct {
	*ledger.Player
	JWT string `json:"jwt"`
}

var validDisplayNameRx = regexp.MustCompile(`^[\p{L}\p{N} ]{0,40}\z`)

func (m *Mux) postPlayer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pp playerPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		if !validDisplayNameRx.MatchString(pp.DisplayName) {
			writeJSONError(w, http.StatusBadRequest, errors.New("display name must only contain letters, numbers, and spaces, and be 40 characters or less"))
			return
		}

		displayName := pp.DisplayName
		if displayName == "" {
			displayName = util.GetRandomName()
		}

		player, err := ledger.CreatePlayer(r.Context(), displayName)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		signedJWT, err := jwt.Sign(player.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusCreated, &playerWithJWT{
			Player: player,
			JWT:    signedJWT,
		})
	}
}
