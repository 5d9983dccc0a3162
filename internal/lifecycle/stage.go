// Package lifecycle is the pure complaint view-model: stage catalog,
// viewer-relative status, due dates, action eligibility and response
// grouping. Everything here is synchronous, deterministic and free of I/O so
// that every display surface computes from the same rules.
package lifecycle

// Lifecycle stages in escalation order. The server may introduce new stages;
// unknown values degrade to a fallback label rather than an error.
const (
    StageStakeholderFirst  = "stakeholder_first"
    StageStakeholderSecond = "stakeholder_second"
    StageWeredaFirst       = "wereda_first"
    StageWeredaSecond      = "wereda_second"
    StageKifleketemaFirst  = "kifleketema_first"
    StageKifleketemaSecond = "kifleketema_second"
    StageKentiba           = "kentiba"
)

// Handler roles responsible for a stage.
const (
    HandlerStakeholder = "stakeholder_office"
    HandlerWereda      = "wereda_anti_corruption"
    HandlerKifleketema = "kifleketema_anti_corruption"
    HandlerKentiba     = "kentiba_biro"
)

// Global complaint statuses as reported by the server.
const (
    StatusPending    = "pending"
    StatusInProgress = "in_progress"
    StatusResolved   = "resolved"
    StatusEscalated  = "escalated"
)

// Non-handler viewer roles.
const (
    RoleCitizen = "citizen"
    RoleAdmin   = "admin"
)

// UnknownStageLabel is returned for stage values this build does not know.
const UnknownStageLabel = "Unknown Stage"

type stageInfo struct {
    label   string
    handler string
}

// stageOrder is the canonical walk; index in this slice is the stage index.
var stageOrder = []string{
    StageStakeholderFirst,
    StageStakeholderSecond,
    StageWeredaFirst,
    StageWeredaSecond,
    StageKifleketemaFirst,
    StageKifleketemaSecond,
    StageKentiba,
}

var stages = map[string]stageInfo{
    StageStakeholderFirst:  {label: "Stakeholder Office (First Stage)", handler: HandlerStakeholder},
    StageStakeholderSecond: {label: "Stakeholder Office (Second Stage)", handler: HandlerStakeholder},
    StageWeredaFirst:       {label: "Wereda Anti-Corruption (First Stage)", handler: HandlerWereda},
    StageWeredaSecond:      {label: "Wereda Anti-Corruption (Second Stage)", handler: HandlerWereda},
    StageKifleketemaFirst:  {label: "Kifleketema Anti-Corruption (First Stage)", handler: HandlerKifleketema},
    StageKifleketemaSecond: {label: "Kifleketema Anti-Corruption (Second Stage)", handler: HandlerKifleketema},
    StageKentiba:           {label: "Kentiba Biro", handler: HandlerKentiba},
}

// StageIndex returns the 0..6 position of a stage, or -1 when unknown.
func StageIndex(stage string) int {
    for i, s := range stageOrder {
        if s == stage { return i }
    }
    return -1
}

// StageLabel returns the display label for a stage.
func StageLabel(stage string) string {
    if si, ok := stages[stage]; ok { return si.label }
    return UnknownStageLabel
}

// StageHandler returns the role handling a stage, or "" when unknown.
func StageHandler(stage string) string {
    return stages[stage].handler
}

// NextStage returns the canonical successor stage, or "" for the terminal
// stage and unknown input. The label offered is always the immediate
// successor even when the server skips further ahead.
func NextStage(stage string) string {
    i := StageIndex(stage)
    if i < 0 || i+1 >= len(stageOrder) { return "" }
    return stageOrder[i+1]
}

// NextStageLabel returns the label of the canonical successor, or "".
func NextStageLabel(stage string) string {
    next := NextStage(stage)
    if next == "" { return "" }
    return StageLabel(next)
}

// Stages returns the catalog in order. Callers must not mutate it.
func Stages() []string { return stageOrder }
