package lifecycle

import "civigate/internal/model"

// handlerRank orders handler tiers for the escalated-from-my-perspective
// rule. Higher rank means further up the escalation chain.
var handlerRank = map[string]int{
    HandlerStakeholder: 0,
    HandlerWereda:      1,
    HandlerKifleketema: 2,
    HandlerKentiba:     3,
}

// EffectiveStatus computes the status a given viewer role should perceive.
// Resolution is global: a resolved complaint reads resolved for everyone.
// Otherwise a handler whose case has moved to a higher tier sees it as
// escalated even though the global status still tracks the new handler.
// Citizens, kentiba and unrecognized roles see the server status unchanged.
func EffectiveStatus(c *model.Complaint, viewerRole string) string {
    if c.Status == StatusResolved { return StatusResolved }
    vr, ok := handlerRank[viewerRole]
    if !ok || viewerRole == HandlerKentiba { return c.Status }
    hr, ok := handlerRank[c.CurrentHandler]
    if !ok { return c.Status }
    if hr > vr { return StatusEscalated }
    return c.Status
}
