package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bidtrack/models"
)

// GetVendorsHandler отдает проекцию подрядчиков
func (h *Handler) GetVendorsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Vendors())
}

// CreateVendorHandler обрабатывает POST /api/vendors/new
func (h *Handler) CreateVendorHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var vendor models.Vendor
	if err := json.Unmarshal(body, &vendor); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if err := validateVendorRequest(&vendor); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.Coord.CreateVendor(r.Context(), vendor)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// validateVendorRequest проверяет обязательные поля подрядчика
func validateVendorRequest(v *models.Vendor) error {
	if v.CompanyName == "" {
		return errors.New("companyName is required")
	}
	switch v.VendorType {
	case "", models.VendorTypeVendor, models.VendorTypeSubcontractor, models.VendorTypeGeneralContractor:
		// пустой тип превращается в дефолтный
		if v.VendorType == "" {
			v.VendorType = models.VendorTypeVendor
		}
	default:
		return errors.New("invalid vendorType")
	}
	return nil
}

// EditVendorHandler обрабатывает PATCH /api/vendors/{vendorId}
func (h *Handler) EditVendorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "vendorId"))
	if err != nil {
		http.Error(w, "Invalid vendor id", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var patch models.VendorPatch
	if err := json.Unmarshal(body, &patch); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	patch.ID = id

	if err := h.Coord.UpdateVendor(r.Context(), id, patch); err != nil {
		writeMutationError(w, err)
		return
	}
	vendor, _ := h.Store.Vendor(id)
	writeJSON(w, http.StatusOK, vendor)
}

// DeleteVendorHandler обрабатывает DELETE /api/vendors/{vendorId}
func (h *Handler) DeleteVendorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "vendorId"))
	if err != nil {
		http.Error(w, "Invalid vendor id", http.StatusBadRequest)
		return
	}
	if err := h.Coord.DeleteVendor(r.Context(), id); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": "deleted"})
}
