package planner

import (
	"strings"

	"github.com/couchcryptid/signals-planner/internal/adapter/navlink"
	"github.com/couchcryptid/signals-planner/internal/domain"
)

// State is the display state of a suggestion.
type State string

const (
	StateNeedInput State = "need_input"
	StateNoPick    State = "no_pick"
	StateReady     State = "ready"
)

// PlanRequest is the driver's trip and preferences.
type PlanRequest struct {
	Start        string `json:"start"`
	Dest         string `json:"dest"`
	PreferLights bool   `json:"preferLights"`
	AvoidTurns   bool   `json:"avoidTurns"`
}

func (r PlanRequest) normalized() PlanRequest {
	r.Start = strings.TrimSpace(r.Start)
	r.Dest = strings.TrimSpace(r.Dest)
	return r
}

func (r PlanRequest) complete() bool {
	return r.Start != "" && r.Dest != ""
}

// Suggestion is the outcome of Plan. Best and Backup carry both the street's
// rating and its computed score.
type Suggestion struct {
	State       State                 `json:"state"`
	Message     string                `json:"message,omitempty"`
	Best        *domain.ScoredStreet  `json:"best,omitempty"`
	Backup      *domain.ScoredStreet  `json:"backup,omitempty"`
	Ranked      []domain.ScoredStreet `json:"ranked,omitempty"`
	Tip         string                `json:"tip,omitempty"`
	SaveEnabled bool                  `json:"saveEnabled"`
}

// HandoffRequest asks for a navigation deep link. Origin, when set, is used
// instead of the planner's locator.
type HandoffRequest struct {
	App       navlink.App
	UserAgent string
	Start     string
	Dest      string
	Origin    *domain.Coordinate
}

// HandoffResult is the link plus how origin acquisition went. Origin is zero
// when the request carried start text.
type HandoffResult struct {
	navlink.Handoff
	Origin domain.OriginResult `json:"origin,omitzero"`
}
