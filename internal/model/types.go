package model

import "time"

// Wire types for the external complaints/content API. The gateway never
// mutates these records; they are created and updated upstream.

type Complaint struct {
    ID             string `json:"id"`
    Title          string `json:"title,omitempty"`
    Description    string `json:"description,omitempty"`
    Status         string `json:"status"`
    CurrentStage   string `json:"currentStage"`
    CurrentHandler string `json:"currentHandler"`
    SubmitterID    string `json:"submitterId,omitempty"`
    Kifleketema    string `json:"kifleketema,omitempty"`
    Wereda         string `json:"wereda,omitempty"`

    Responses         []Response       `json:"responses"`
    EscalationHistory []EscalationStep `json:"escalationHistory,omitempty"`
    Resolution        *Resolution      `json:"resolution,omitempty"`

    StakeholderFirstResponseDue  *time.Time `json:"stakeholderFirstResponseDue,omitempty"`
    StakeholderSecondResponseDue *time.Time `json:"stakeholderSecondResponseDue,omitempty"`
    WeredaFirstResponseDue       *time.Time `json:"weredaFirstResponseDue,omitempty"`
    WeredaSecondResponseDue      *time.Time `json:"weredaSecondResponseDue,omitempty"`
    KifleketemaFirstResponseDue  *time.Time `json:"kifleketemaFirstResponseDue,omitempty"`
    KifleketemaSecondResponseDue *time.Time `json:"kifleketemaSecondResponseDue,omitempty"`

    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

type Response struct {
    ResponderRole   string `json:"responderRole"`
    Response        string `json:"response"`
    InternalComment string `json:"internalComment,omitempty"`
    // Stage is authoritative when present; older records predate the tag.
    Stage     string    `json:"stage,omitempty"`
    CreatedAt time.Time `json:"createdAt"`
}

type EscalationStep struct {
    From   string    `json:"from"`
    To     string    `json:"to"`
    Reason string    `json:"reason,omitempty"`
    Date   time.Time `json:"date"`
}

type Resolution struct {
    Resolution string    `json:"resolution"`
    ResolvedBy string    `json:"resolvedBy"`
    ResolvedAt time.Time `json:"resolvedAt"`
}

// ComplaintView is the computed projection served alongside a complaint.
// Every display surface renders badges, due warnings and action buttons from
// this and nothing else.
type ComplaintView struct {
    EffectiveStatus      string                `json:"effectiveStatus"`
    StageLabel           string                `json:"stageLabel"`
    NextStageLabel       string                `json:"nextStageLabel,omitempty"`
    DueDate              *time.Time            `json:"dueDate,omitempty"`
    IsOverdue            bool                  `json:"isOverdue"`
    CanAcceptResponse    bool                  `json:"canAcceptResponse"`
    CanSubmitSecondStage bool                  `json:"canSubmitSecondStage"`
    CanEscalate          bool                  `json:"canEscalate"`
    ResponsesByStage     map[string][]Response `json:"responsesByStage"`
}

type ComplaintList struct {
    Items      []Complaint `json:"items"`
    NextCursor string      `json:"nextCursor,omitempty"`
}

// Action request bodies forwarded to the upstream API.

type EscalateRequest struct {
    Reason string `json:"reason"`
}

type RespondRequest struct {
    Response        string `json:"response"`
    InternalComment string `json:"internalComment,omitempty"`
}

// Content records: simple read-only screens proxied from upstream.

type BlogPost struct {
    ID          string    `json:"id"`
    Title       string    `json:"title"`
    Body        string    `json:"body,omitempty"`
    Author      string    `json:"author,omitempty"`
    Tags        []string  `json:"tags,omitempty"`
    Alert       bool      `json:"alert,omitempty"`
    PublishedAt time.Time `json:"publishedAt"`
}

type DocumentGuide struct {
    ID           string   `json:"id"`
    Title        string   `json:"title"`
    Summary      string   `json:"summary,omitempty"`
    Requirements []string `json:"requirements,omitempty"`
    OfficeID     string   `json:"officeId,omitempty"`
}

type Office struct {
    ID          string   `json:"id"`
    Name        string   `json:"name"`
    Kifleketema string   `json:"kifleketema,omitempty"`
    Wereda      string   `json:"wereda,omitempty"`
    Services    []string `json:"services,omitempty"`
}

type OfficeAvailability struct {
    OfficeID string   `json:"officeId"`
    Open     bool     `json:"open"`
    Hours    string   `json:"hours,omitempty"`
    Notes    string   `json:"notes,omitempty"`
    Closed   []string `json:"closedDates,omitempty"`
}

// AdminStats mirrors the dashboard aggregates computed upstream.
type AdminStats struct {
    Total     int            `json:"total"`
    ByStatus  map[string]int `json:"byStatus,omitempty"`
    ByStage   map[string]int `json:"byStage,omitempty"`
    ByHandler map[string]int `json:"byHandler,omitempty"`
    Overdue   int            `json:"overdue"`
}
