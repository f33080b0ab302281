package handlers

import (
	"net/http"

	"github.com/Dosada05/event-hub/middleware"
	"github.com/Dosada05/event-hub/models"
	"github.com/Dosada05/event-hub/services"
)

type RosterHandler struct {
	rosterService *services.RosterService
	hubService    *services.HubService
}

func NewRosterHandler(rosterService *services.RosterService, hubService *services.HubService) *RosterHandler {
	return &RosterHandler{
		rosterService: rosterService,
		hubService:    hubService,
	}
}

type swapSlotInput struct {
	NewSlot string `json:"new_slot"`
}

// SwapSlot godoc
// @Summary Move a team member between starter and substitute
// @Tags roster
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param membershipID path int true "Membership ID"
// @Success 200 {object} map[string]interface{} "Old and new slot plus the acting member's name"
// @Failure 403 {object} map[string]interface{} "Caller cannot manage this roster or the roster is locked"
// @Failure 409 {object} map[string]interface{} "Starter limit reached"
// @Security BearerAuth
// @Router /teams/{teamID}/roster/{membershipID}/slot [patch]
func (h *RosterHandler) SwapSlot(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	membershipID, err := getIDFromURL(r, "membershipID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	var input swapSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	change, err := h.rosterService.SwapSlot(r.Context(), teamID, membershipID, callerID, models.RosterSlot(input.NewSlot))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"success":      true,
		"old_slot":     change.OldSlot,
		"new_slot":     change.NewSlot,
		"display_name": change.DisplayName,
		"membership":   change.Membership,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetTeamRoster godoc
// @Summary Get the team's active roster with slots and display data
// @Tags roster
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{} "Team with members"
// @Failure 403 {object} map[string]interface{} "Caller is not a member of the team"
// @Security BearerAuth
// @Router /teams/{teamID}/roster [get]
func (h *RosterHandler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	callerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, "authentication required")
		return
	}

	team, err := h.hubService.GetTeamRoster(r.Context(), teamID, callerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
