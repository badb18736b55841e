package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"lifesaver-qr/internal/delivery/dto"
	"lifesaver-qr/internal/domain/entity"
	"lifesaver-qr/internal/usecase"
	"lifesaver-qr/pkg/response"
	"lifesaver-qr/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type EmergencyRecordHandler struct {
	recordUsecase usecase.EmergencyRecordUsecase
	validator     *validator.CustomValidator
	log           *logrus.Logger
	bareBodies    bool
}

func NewEmergencyRecordHandler(recordUsecase usecase.EmergencyRecordUsecase, validator *validator.CustomValidator, log *logrus.Logger) *EmergencyRecordHandler {
	return &EmergencyRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
		log:           log,
	}
}

// WithBareBodies makes successful JSON responses carry the payload alone,
// without the envelope. Error responses keep the envelope.
func (h *EmergencyRecordHandler) WithBareBodies(bare bool) *EmergencyRecordHandler {
	h.bareBodies = bare
	return h
}

func (h *EmergencyRecordHandler) success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	if h.bareBodies {
		response.JSON(w, statusCode, data)
		return
	}
	response.Success(w, statusCode, message, data)
}

// Create handles emergency record creation
// @Summary Create an emergency record
// @Tags Emergency Records
// @Accept json
// @Produce json
// @Param request body dto.CreateEmergencyRecordRequest true "Create Emergency Record Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /details [post]
func (h *EmergencyRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmergencyRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.Create(r.Context(), &req)
	if err != nil {
		var fieldErr *entity.InvalidFieldError
		if errors.As(err, &fieldErr) {
			response.ValidationError(w, map[string]string{fieldErr.Field: fieldErr.Reason})
			return
		}
		response.InternalServerError(w, "Failed to create emergency record")
		return
	}

	h.success(w, http.StatusCreated, "Emergency record created successfully", record)
}

// GetRecord handles getting the full record
// @Summary Get an emergency record
// @Tags Emergency Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /details/{id} [get]
func (h *EmergencyRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.recordUsecase.GetRecord(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "Failed to get emergency record")
		return
	}

	h.success(w, http.StatusOK, "Emergency record retrieved successfully", record)
}

// GetProfile handles the public profile a scanned sticker opens
// @Summary Get a public profile
// @Tags Emergency Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile/{id} [get]
func (h *EmergencyRecordHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	profile, err := h.recordUsecase.GetPublicProfile(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "Failed to get profile")
		return
	}

	h.success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

// GetQRCode handles QR code download
// @Summary Get the profile QR code
// @Tags Emergency Records
// @Produce png
// @Param id path string true "Record ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Router /qr-code/{id} [get]
func (h *EmergencyRecordHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	artifact, err := h.recordUsecase.GetQRCode(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "Failed to generate QR code")
		return
	}

	response.File(w, artifact.ContentType, response.Inline, artifact.Filename, artifact.Data)
}

// GetDocument handles sticker sheet download
// @Summary Get the printable sticker sheet
// @Tags Emergency Records
// @Produce application/pdf
// @Param id path string true "Record ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /generate-pdf/{id} [get]
func (h *EmergencyRecordHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	artifact, err := h.recordUsecase.GetDocument(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err, "Failed to generate PDF")
		return
	}

	response.File(w, artifact.ContentType, response.Attachment, artifact.Filename, artifact.Data)
}

func (h *EmergencyRecordHandler) writeLookupError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, usecase.ErrRecordNotFound):
		response.NotFound(w, "Record not found")
	default:
		h.log.Errorf("%s: %+v", message, err)
		response.InternalServerError(w, message)
	}
}
