package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	internaljwt "barn-chat-backend/internal/jwt"
	"barn-chat-backend/utils"
)

type AuthEndpoints interface {
	Token(http.ResponseWriter, *http.Request) error
}

type authEndpoints struct {
	signer  *internaljwt.Signer
	keyHash string
}

// NewAuthEndpoints exchanges a service API key, checked against keyHash,
// for a short-lived bearer token.
func NewAuthEndpoints(signer *internaljwt.Signer, keyHash string) AuthEndpoints {
	return &authEndpoints{
		signer:  signer,
		keyHash: keyHash,
	}
}

func (h *authEndpoints) Token(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodPost: h.handleToken,
	})
}

func (h *authEndpoints) handleToken(w http.ResponseWriter, r *http.Request) error {
	var req internaljwt.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid request payload",
			ErrorLog:   fmt.Errorf("decode token request: %w", err),
		}
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		return &HTTPError{
			StatusCode: http.StatusBadRequest,
			Message:    "apiKey is required",
			ErrorLog:   fmt.Errorf("token request without api key"),
		}
	}

	if !utils.IsAPIKey(apiKey) || !internaljwt.ValidateKey(h.keyHash, apiKey) {
		return &HTTPError{
			StatusCode: http.StatusUnauthorized,
			Message:    "Invalid API key",
			ErrorLog:   fmt.Errorf("token request with invalid api key"),
		}
	}

	token, err := h.signer.CreateToken("service")
	if err != nil {
		return &HTTPError{
			StatusCode: http.StatusInternalServerError,
			Message:    "Internal server error",
			ErrorLog:   fmt.Errorf("create service token: %w", err),
		}
	}

	return WriteJSON(w, http.StatusOK, token)
}
