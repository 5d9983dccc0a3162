package lifecycle

import (
    "time"

    "civigate/internal/model"
)

// Actions holds the per-complaint action gates. Citizens and admins rely on
// these to know what recourse exists, so the rules here are the single
// authority for button availability.
type Actions struct {
    CanAcceptResponse    bool `json:"canAcceptResponse"`
    CanSubmitSecondStage bool `json:"canSubmitSecondStage"`
    CanEscalate          bool `json:"canEscalate"`
}

// Eligible evaluates the three action gates for a complaint at a point in
// time. Resolution is terminal: nothing is eligible afterwards.
func Eligible(c *model.Complaint, now time.Time) Actions {
    return Actions{
        CanAcceptResponse:    canAcceptResponse(c),
        CanSubmitSecondStage: canSubmitSecondStage(c),
        CanEscalate:          canEscalate(c, now),
    }
}

// canAcceptResponse: any existing response, whatever its stage, lets the
// citizen close out the case as satisfactorily resolved.
func canAcceptResponse(c *model.Complaint) bool {
    return len(c.Responses) > 0 && c.Status != StatusResolved
}

// canSubmitSecondStage: only first sub-stages have a second-stage follow-up
// path, and only once the stage's current handler has actually replied. A
// response left behind by a handler the case has moved past does not count.
func canSubmitSecondStage(c *model.Complaint) bool {
    switch c.CurrentStage {
    case StageStakeholderFirst, StageWeredaFirst, StageKifleketemaFirst:
    default:
        return false
    }
    if len(c.Responses) == 0 { return false }
    if !hasResponseFrom(c, StageHandler(c.CurrentStage)) { return false }
    switch c.Status {
    case StatusInProgress, StatusPending, StatusEscalated:
        return true
    }
    return false
}

// canEscalate applies two policies. First sub-stages treat escalation as the
// silence remedy: only once the deadline has passed and no response is under
// review. Second sub-stages escalate on a missed deadline, or once the
// current handler has replied while the case is still open against them.
func canEscalate(c *model.Complaint, now time.Time) bool {
    if c.Status == StatusResolved { return false }
    switch c.CurrentStage {
    case StageStakeholderFirst, StageWeredaFirst, StageKifleketemaFirst:
        return IsOverdue(c, now) && c.Status != StatusInProgress
    case StageStakeholderSecond, StageWeredaSecond:
        return IsOverdue(c, now) || secondStageResponded(c)
    case StageKifleketemaSecond:
        if IsOverdue(c, now) || secondStageResponded(c) { return true }
        // Complaints can land here straight from the stakeholder office via
        // an earlier escalation, skipping wereda entirely. Keep escalation
        // reachable on that path as long as kifleketema has replied.
        return hasResponseFrom(c, HandlerKifleketema) &&
            hasEscalation(c, HandlerStakeholder, HandlerKifleketema)
    }
    // kentiba is the terminal authority; unknown stages gate nothing on.
    return false
}

func secondStageResponded(c *model.Complaint) bool {
    if !hasResponseFrom(c, StageHandler(c.CurrentStage)) { return false }
    return c.Status == StatusInProgress || c.Status == StatusEscalated
}

func hasResponseFrom(c *model.Complaint, role string) bool {
    if role == "" { return false }
    for _, r := range c.Responses {
        if r.ResponderRole == role { return true }
    }
    return false
}

func hasEscalation(c *model.Complaint, from, to string) bool {
    for _, e := range c.EscalationHistory {
        if e.From == from && e.To == to { return true }
    }
    return false
}
