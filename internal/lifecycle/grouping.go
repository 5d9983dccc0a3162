package lifecycle

import (
    "sort"

    "civigate/internal/model"
)

// rolePair maps a handler role to its first/second sub-stage pair. Kentiba
// has a single bucket.
var rolePair = map[string][2]string{
    HandlerStakeholder: {StageStakeholderFirst, StageStakeholderSecond},
    HandlerWereda:      {StageWeredaFirst, StageWeredaSecond},
    HandlerKifleketema: {StageKifleketemaFirst, StageKifleketemaSecond},
}

// GroupByStage assigns responses to stage buckets for per-stage display.
// A response carrying a known stage tag is bucketed by it (authoritative).
// Untagged legacy records are inferred from the responder role: the first
// response already sitting in a role's stage pair sends the next one to the
// second sub-stage. Untagged responses from unrecognized roles are dropped
// rather than guessed.
func GroupByStage(responses []model.Response) map[string][]model.Response {
    buckets := make(map[string][]model.Response, len(stageOrder))
    for _, s := range stageOrder {
        buckets[s] = []model.Response{}
    }
    ordered := make([]model.Response, len(responses))
    copy(ordered, responses)
    sort.SliceStable(ordered, func(i, j int) bool {
        return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
    })
    for _, r := range ordered {
        if r.Stage != "" {
            if _, ok := stages[r.Stage]; ok {
                buckets[r.Stage] = append(buckets[r.Stage], r)
                continue
            }
            // Unknown tag from a newer server: fall through to inference.
        }
        if r.ResponderRole == HandlerKentiba {
            buckets[StageKentiba] = append(buckets[StageKentiba], r)
            continue
        }
        pair, ok := rolePair[r.ResponderRole]
        if !ok { continue }
        if len(buckets[pair[0]]) == 0 {
            buckets[pair[0]] = append(buckets[pair[0]], r)
        } else {
            buckets[pair[1]] = append(buckets[pair[1]], r)
        }
    }
    return buckets
}
