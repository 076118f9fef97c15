package handlers

import (
	"errors"
	"io"
	"net/http"

	"server/internal/premium"
)

// maxUploadBytes bounds the multipart body; room photos above this are rejected.
const maxUploadBytes = 10 << 20

type premiumResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	UserImageURL      string `json:"userImageUrl"`
	GeneratedImageURL string `json:"generatedImageUrl"`
	ProductURL        string `json:"productUrl"`
	ProductName       string `json:"productName"`
}

// PremiumExperience handles the composite photo + product submission.
func (a *App) PremiumExperience(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.fail(w, http.StatusBadRequest, "El cuerpo de la solicitud debe ser multipart/form-data con la imagen")
		return
	}

	var image []byte
	if file, _, err := r.FormFile("image"); err == nil {
		image, err = io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			a.fail(w, http.StatusBadRequest, "No se pudo leer la imagen de la habitación")
			return
		}
	}

	req := premium.Request{
		Image:       image,
		ProductID:   r.FormValue("productId"),
		ProductName: r.FormValue("productName"),
		Idea:        r.FormValue("idea"),
		ProductURL:  r.FormValue("productUrl"),
	}

	result, err := a.Premium.Process(r.Context(), req)
	if err != nil {
		var verr *premium.ValidationError
		if errors.As(err, &verr) {
			a.fail(w, http.StatusBadRequest, verr.Message)
			return
		}
		// upstream detail stays in the logs, the caller gets a generic message
		a.Logger.Error().Err(err).Msg("premium experience failed")
		a.fail(w, http.StatusInternalServerError, "Ocurrió un error interno, intenta de nuevo más tarde")
		return
	}

	a.json(w, http.StatusOK, premiumResponse{
		Success:           true,
		Message:           result.Message,
		UserImageURL:      result.UserImageURL,
		GeneratedImageURL: result.GeneratedImageURL,
		ProductURL:        result.ProductURL,
		ProductName:       result.ProductName,
	})
}
