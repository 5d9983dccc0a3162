package lifecycle

import "testing"

func TestStageCatalogOrder(t *testing.T) {
    want := []string{
        StageStakeholderFirst, StageStakeholderSecond,
        StageWeredaFirst, StageWeredaSecond,
        StageKifleketemaFirst, StageKifleketemaSecond,
        StageKentiba,
    }
    got := Stages()
    if len(got) != len(want) { t.Fatalf("catalog size: got %d, want %d", len(got), len(want)) }
    for i, s := range want {
        if got[i] != s { t.Fatalf("catalog[%d]: got %s, want %s", i, got[i], s) }
        if StageIndex(s) != i { t.Fatalf("index(%s): got %d, want %d", s, StageIndex(s), i) }
    }
}

func TestStageHandlers(t *testing.T) {
    cases := map[string]string{
        StageStakeholderFirst:  HandlerStakeholder,
        StageStakeholderSecond: HandlerStakeholder,
        StageWeredaFirst:       HandlerWereda,
        StageWeredaSecond:      HandlerWereda,
        StageKifleketemaFirst:  HandlerKifleketema,
        StageKifleketemaSecond: HandlerKifleketema,
        StageKentiba:           HandlerKentiba,
    }
    for stage, handler := range cases {
        if got := StageHandler(stage); got != handler {
            t.Fatalf("handler(%s): got %s, want %s", stage, got, handler)
        }
    }
}

func TestUnknownStageFallback(t *testing.T) {
    if StageIndex("ombudsman_review") != -1 { t.Fatal("unknown stage should index -1") }
    if StageLabel("ombudsman_review") != UnknownStageLabel {
        t.Fatalf("unknown stage label: got %q", StageLabel("ombudsman_review"))
    }
    if StageHandler("ombudsman_review") != "" { t.Fatal("unknown stage should have no handler") }
    if NextStage("ombudsman_review") != "" { t.Fatal("unknown stage should have no successor") }
}

func TestNextStage(t *testing.T) {
    if got := NextStage(StageStakeholderFirst); got != StageStakeholderSecond {
        t.Fatalf("next(stakeholder_first): got %s", got)
    }
    if got := NextStage(StageKifleketemaSecond); got != StageKentiba {
        t.Fatalf("next(kifleketema_second): got %s", got)
    }
    if got := NextStage(StageKentiba); got != "" {
        t.Fatalf("next(kentiba): got %s, want empty", got)
    }
    if got := NextStageLabel(StageWeredaFirst); got != StageLabel(StageWeredaSecond) {
        t.Fatalf("next label(wereda_first): got %q", got)
    }
}
