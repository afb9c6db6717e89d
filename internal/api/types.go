package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// The backend carries two API generations: the legacy "portfolio" routes and
// the newer funding routes. Both are consumed here; the glossary terms
// funding source / budget / portfolio name the same scope.

// FundingSource is the top-level ledger scope (legacy: portfolio/CAR).
type FundingSource struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	FiscalYear string `json:"fiscal_year,omitempty"`
	Owner      string `json:"owner,omitempty"`
}

// Budget is the newer-generation funding source record.
type Budget struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type,omitempty"`
	CarCode      string     `json:"car_code,omitempty"`
	CcCode       string     `json:"cc_code,omitempty"`
	ClosureDate  *string    `json:"closure_date,omitempty"`
	IsTemporary  bool       `json:"is_temporary,omitempty"`
	Tags         *TagBundle `json:"tags,omitempty"`
	LegacyOwner  string     `json:"legacy_owner,omitempty"`
	LegacyFiscal string     `json:"legacy_fiscal_year,omitempty"`
}

// ProjectGroup clusters projects for reporting.
type ProjectGroup struct {
	ID          int64  `json:"id"`
	Code        string `json:"code,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Project is a unit of work scoped to one funding source.
type Project struct {
	ID      int64  `json:"id"`
	CarID   int64  `json:"car_id"`
	Name    string `json:"name"`
	GroupID *int64 `json:"group_id,omitempty"`
	Code    string `json:"code,omitempty"`
	Line    string `json:"line,omitempty"`
}

// Category is an n-level cost breakdown node. Leaf categories hold a direct
// amount; non-leaf categories roll up descendants server-side.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ParentID  *int64 `json:"parent_id,omitempty"`
	ProjectID *int64 `json:"project_id,omitempty"`
}

// Vendor is a supplier record.
type Vendor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Allocation splits an entry amount across funding sources.
type Allocation struct {
	PortfolioID int64           `json:"portfolio_id"`
	Amount      decimal.Decimal `json:"amount"`
}

// Entry is a ledger transaction of one kind (budget, quote, po, unplanned,
// adjustment) with kind-specific required fields.
type Entry struct {
	ID            int64        `json:"id,omitempty"`
	Date          string       `json:"date,omitempty"`
	Kind          string       `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string       `json:"description,omitempty"`
	CarID         int64        `json:"car_id"`
	ProjectID     *int64       `json:"project_id,omitempty"`
	CategoryID    *int64       `json:"category_id,omitempty"`
	VendorID      *int64       `json:"vendor_id,omitempty"`
	PONumber      string       `json:"po_number,omitempty"`
	QuoteRef      string       `json:"quote_ref,omitempty"`
	Allocations   []Allocation `json:"allocations,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Mischarged    bool         `json:"mischarged,omitempty"`
	IntendedCarID *int64       `json:"intended_car_id,omitempty"`
}

// Tag is a free-form label assignable across entity scopes.
type Tag struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color,omitempty"`
	Description  string `json:"description,omitempty"`
	IsDeprecated bool   `json:"is_deprecated,omitempty"`
}

// TagBundle carries the direct / inherited / effective tag sets computed
// server-side for one entity.
type TagBundle struct {
	Direct    []Tag `json:"direct"`
	Inherited []Tag `json:"inherited"`
	Effective []Tag `json:"effective"`
}

// TagUsage reports how many assignments reference a tag.
type TagUsage struct {
	Tag         Tag `json:"tag"`
	Assignments int `json:"assignments"`
}

// ItemProject is the newer-generation project record with tag metadata.
type ItemProject struct {
	ID       int64      `json:"id"`
	BudgetID int64      `json:"budget_id"`
	Name     string     `json:"name"`
	Tags     *TagBundle `json:"tags,omitempty"`
}

// LineAsset is an asset attachable to item-projects.
type LineAsset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TreeNode is one row of the budget drill-down hierarchy. Type is one of
// budget, item_project, category, line_asset.
type TreeNode struct {
	Key      string           `json:"key"`
	Type     string           `json:"type"`
	ID       int64            `json:"id"`
	Label    string           `json:"label"`
	Path     string           `json:"path,omitempty"`
	Leaf     bool             `json:"leaf,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Tags     *TagBundle       `json:"tags,omitempty"`
	Children []TreeNode       `json:"children,omitempty"`
}

// FxRate is a currency conversion rate with a validity window. Rates outside
// the 0.5–2.0 safety band need ManualOverride set.
type FxRate struct {
	ID             int64           `json:"id,omitempty"`
	BaseCurrency   string          `json:"base_currency,omitempty"`
	QuoteCurrency  string          `json:"quote_currency"`
	ValidFrom      string          `json:"valid_from"`
	ValidTo        *string         `json:"valid_to,omitempty"`
	Rate           decimal.Decimal `json:"rate"`
	ManualOverride bool            `json:"manual_override"`
}

// PaymentSchedule is one planned payment against a PO or invoice.
type PaymentSchedule struct {
	ID              int64            `json:"id,omitempty"`
	PurchaseOrderID *int64           `json:"purchase_order_id,omitempty"`
	InvoiceID       *int64           `json:"invoice_id,omitempty"`
	Percent         *decimal.Decimal `json:"percent,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	DueDateRule     string           `json:"due_date_rule,omitempty"`
	NetDays         *int             `json:"net_days,omitempty"`
	EventType       string           `json:"event_type,omitempty"`
	DueDate         *string          `json:"due_date,omitempty"`
	Status          string           `json:"status,omitempty"`
}

// ScheduleGenerateRequest asks the server to derive a payment plan.
type ScheduleGenerateRequest struct {
	InvoiceID       *int64 `json:"invoice_id,omitempty"`
	PurchaseOrderID *int64 `json:"purchase_order_id,omitempty"`
	NetDays         int    `json:"net_days"`
}

// Milestone is a checkpoint on a deliverable lot.
type Milestone struct {
	ID               int64   `json:"id,omitempty"`
	CheckpointTypeID int64   `json:"checkpoint_type_id"`
	PlannedDate      *string `json:"planned_date,omitempty"`
	ActualDate       *string `json:"actual_date,omitempty"`
	Status           string  `json:"status,omitempty"`
}

// DeliverableLot groups milestones under one PO line.
type DeliverableLot struct {
	ID            int64           `json:"id,omitempty"`
	POLineID      int64           `json:"po_line_id"`
	LotQty        decimal.Decimal `json:"lot_qty"`
	LotIdentifier string          `json:"lot_identifier,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Milestones    []Milestone     `json:"milestones,omitempty"`
}

// CheckpointType names a milestone template (e.g. FAT, SAT, DELIVERY).
type CheckpointType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DeliverableTemplateApply instantiates lots + milestones for a PO.
type DeliverableTemplateApply struct {
	PurchaseOrderID   int64             `json:"purchase_order_id"`
	LotQuantities     []decimal.Decimal `json:"lot_quantities"`
	CheckpointTypeIDs []int64           `json:"checkpoint_type_ids"`
}

// ReportDefinition is a saved report configuration.
type ReportDefinition struct {
	ID         int64                  `json:"id,omitempty"`
	Name       string                 `json:"name"`
	Owner      string                 `json:"owner"`
	JSONConfig map[string]interface{} `json:"json_config"`
	CreatedAt  *time.Time             `json:"created_at,omitempty"`
	UpdatedAt  *time.Time             `json:"updated_at,omitempty"`
}

// ReportResult is the rowset from running a saved or ad-hoc report.
type ReportResult struct {
	Rows        []map[string]interface{} `json:"rows"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// Job statuses used by the async rebuild pipeline.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// Job is a server-side background job record, polled by id.
type Job struct {
	ID         int64   `json:"id"`
	Kind       string  `json:"kind"`
	Status     string  `json:"status"`
	Payload    string  `json:"payload,omitempty"`
	Error      string  `json:"error,omitempty"`
	StartedAt  *string `json:"started_at,omitempty"`
	FinishedAt *string `json:"finished_at,omitempty"`
}

// Terminal reports whether the job has left the queued/running states.
func (j Job) Terminal() bool {
	return j.Status != JobStatusQueued && j.Status != JobStatusRunning
}
