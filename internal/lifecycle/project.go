package lifecycle

import (
    "time"

    "civigate/internal/model"
)

// Project combines the evaluators into the full view-model projection for
// one complaint as seen by one viewer role at one instant.
func Project(c *model.Complaint, viewerRole string, now time.Time) model.ComplaintView {
    acts := Eligible(c, now)
    return model.ComplaintView{
        EffectiveStatus:      EffectiveStatus(c, viewerRole),
        StageLabel:           StageLabel(c.CurrentStage),
        NextStageLabel:       NextStageLabel(c.CurrentStage),
        DueDate:              DueDate(c),
        IsOverdue:            IsOverdue(c, now),
        CanAcceptResponse:    acts.CanAcceptResponse,
        CanSubmitSecondStage: acts.CanSubmitSecondStage,
        CanEscalate:          acts.CanEscalate,
        ResponsesByStage:     GroupByStage(c.Responses),
    }
}
