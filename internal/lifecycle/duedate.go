package lifecycle

import (
    "time"

    "civigate/internal/model"
)

// DueDate returns the response deadline for the complaint's current stage.
// The terminal kentiba stage and unknown stages have none.
func DueDate(c *model.Complaint) *time.Time {
    switch c.CurrentStage {
    case StageStakeholderFirst:
        return c.StakeholderFirstResponseDue
    case StageStakeholderSecond:
        return c.StakeholderSecondResponseDue
    case StageWeredaFirst:
        return c.WeredaFirstResponseDue
    case StageWeredaSecond:
        return c.WeredaSecondResponseDue
    case StageKifleketemaFirst:
        return c.KifleketemaFirstResponseDue
    case StageKifleketemaSecond:
        return c.KifleketemaSecondResponseDue
    }
    return nil
}

// IsOverdue reports whether the current stage's deadline has passed.
// Deadlines are compared as instants; there is no grace period.
func IsOverdue(c *model.Complaint, now time.Time) bool {
    due := DueDate(c)
    return due != nil && now.After(*due)
}
