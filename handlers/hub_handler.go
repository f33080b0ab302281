package handlers

import (
	"net/http"

	"github.com/Dosada05/event-hub/middleware"
	"github.com/Dosada05/event-hub/services"
)

type HubHandler struct {
	hubService *services.HubService
}

func NewHubHandler(hubService *services.HubService) *HubHandler {
	return &HubHandler{hubService: hubService}
}

// GetSnapshot godoc
// @Summary Poll the live lobby state for a participant entry
// @Tags hub
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} map[string]interface{} "Current snapshot"
// @Failure 403 {object} map[string]interface{} "Caller is not a member of the entry"
// @Failure 404 {object} map[string]interface{} "Entry or event not found"
// @Security BearerAuth
// @Router /entries/{entryID}/snapshot [get]
func (h *HubHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	snapshot, err := h.hubService.GetSnapshot(r.Context(), entryID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"snapshot": snapshot}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmCheckIn godoc
// @Summary Confirm presence for an entry inside the check-in window
// @Tags hub
// @Produce json
// @Param entryID path int true "Entry ID"
// @Success 200 {object} map[string]interface{} "Updated snapshot"
// @Failure 403 {object} map[string]interface{} "Caller is not a member of the entry"
// @Failure 409 {object} map[string]interface{} "Window not open or entry eliminated"
// @Security BearerAuth
// @Router /entries/{entryID}/check-in [post]
func (h *HubHandler) ConfirmCheckIn(w http.ResponseWriter, r *http.Request) {
	entryID, err := getIDFromURL(r, "entryID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	snapshot, err := h.hubService.ConfirmCheckIn(r.Context(), entryID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":       true,
		"checked_in_at": snapshot.CheckedInAt,
		"snapshot":      snapshot,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListAnnouncements godoc
// @Summary List the event's announcement feed
// @Tags hub
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "Up to 20 announcements, pinned first, newest first"
// @Failure 403 {object} map[string]interface{} "Caller has no entry in the event"
// @Security BearerAuth
// @Router /events/{eventID}/announcements [get]
func (h *HubHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	announcements, err := h.hubService.ListAnnouncements(r.Context(), eventID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"announcements": announcements}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEventRoster godoc
// @Summary List all entries of the event with their live check-in state
// @Tags hub
// @Produce json
// @Param eventID path int true "Event ID"
// @Success 200 {object} map[string]interface{} "Event roster"
// @Failure 403 {object} map[string]interface{} "Caller has no entry in the event"
// @Security BearerAuth
// @Router /events/{eventID}/roster [get]
func (h *HubHandler) GetEventRoster(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	roster, err := h.hubService.GetEventRoster(r.Context(), eventID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"roster": roster}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
