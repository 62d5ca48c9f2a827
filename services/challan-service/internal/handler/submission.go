package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/model"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/payload"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/usecase"
	"github.com/vasapolrittideah/challan-api/shared/response"
)

func (h *httpHandler) sendCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.WriteError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		response.WriteError(w, http.StatusBadRequest, "A CSV file is required in the 'file' field")
		return
	}
	defer file.Close()

	result, err := h.submissionUsecase.ForwardCSV(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, usecase.ErrUnsupportedFormat) {
			response.WriteError(w, http.StatusBadRequest, "Only CSV files are allowed")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("filename", header.Filename).Msg("failed to forward csv")
		response.WriteError(w, http.StatusInternalServerError, "Failed to process CSV: "+err.Error())
		return
	}

	hlog.FromRequest(r).Info().Int("rows", result.Rows).Msg("csv forwarded")
	response.WriteJSON(w, http.StatusOK, payload.SendCSVResponse{
		Status:      "CSV data sent to n8n webhook",
		N8NResponse: result.UpstreamResponse,
	})
}

func (h *httpHandler) manualEntry(w http.ResponseWriter, r *http.Request) {
	var req payload.ManualEntryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.submissionUsecase.ForwardManual(r.Context(), model.StudentSubmission{
		StudentName: req.StudentName,
		RollNumber:  req.RollNumber,
		ClassName:   req.ClassName,
		Email:       req.Email,
		ExpiryDate:  req.ExpiryDate,
	})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to forward manual entry")
		response.WriteError(w, http.StatusInternalServerError, "Failed to send data to n8n: "+err.Error())
		return
	}

	hlog.FromRequest(r).Info().Str("challan_no", result.ChallanNo).Msg("manual entry forwarded")
	response.WriteJSON(w, http.StatusOK, payload.ManualEntryResponse{
		Status:      "Manual student data sent successfully",
		ChallanNo:   result.ChallanNo,
		N8NResponse: result.UpstreamResponse,
	})
}
