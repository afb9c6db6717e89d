package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// Newer-generation finance resources: budgets, item-projects, line-assets,
// FX rates, payment schedules, deliverables, reports.

func (c *Client) ListBudgets(ctx context.Context, q string, include []string) ([]Budget, error) {
	values := url.Values{}
	if q != "" {
		values.Set("q", q)
	}
	for _, inc := range include {
		values.Add("include", inc)
	}
	var out []Budget
	if err := c.get(ctx, "/api/budgets"+queryString(values), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BudgetTree returns the nested budget drill-down with tags, paths and assets.
func (c *Client) BudgetTree(ctx context.Context, budgetID int64) ([]TreeNode, error) {
	var out []TreeNode
	if err := c.get(ctx, fmt.Sprintf("/api/budgets/%d/tree", budgetID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListItemProjects(ctx context.Context, budgetID int64) ([]ItemProject, error) {
	values := url.Values{}
	if budgetID > 0 {
		values.Set("budget_id", strconv.FormatInt(budgetID, 10))
	}
	var out []ItemProject
	if err := c.get(ctx, "/api/item-projects"+queryString(values), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListLineAssets(ctx context.Context) ([]LineAsset, error) {
	var out []LineAsset
	if err := c.get(ctx, "/api/line-assets", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AttachLineAsset(ctx context.Context, projectID, assetID int64) error {
	path := fmt.Sprintf("/api/item-projects/%d/line-assets/%d", projectID, assetID)
	return c.post(ctx, path, nil, nil)
}

func (c *Client) DetachLineAsset(ctx context.Context, projectID, assetID int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/item-projects/%d/line-assets/%d", projectID, assetID))
}

func (c *Client) ListFxRates(ctx context.Context, quoteCurrency string) ([]FxRate, error) {
	values := url.Values{}
	if quoteCurrency != "" {
		values.Set("quote_currency", quoteCurrency)
	}
	var out []FxRate
	if err := c.get(ctx, "/api/fx-rates"+queryString(values), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateFxRate submits a rate as-is; the 0.5–2.0 band is enforced client-side
// first, and again by the server unless ManualOverride is set.
func (c *Client) CreateFxRate(ctx context.Context, in FxRate) (FxRate, error) {
	var out FxRate
	err := c.post(ctx, "/api/fx-rates", in, &out)
	return out, err
}

func (c *Client) UpdateFxRate(ctx context.Context, id int64, in FxRate) (FxRate, error) {
	var out FxRate
	err := c.put(ctx, fmt.Sprintf("/api/fx-rates/%d", id), in, &out)
	return out, err
}

func (c *Client) DeleteFxRate(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/fx-rates/%d", id))
}

func (c *Client) ListPaymentSchedules(ctx context.Context) ([]PaymentSchedule, error) {
	var out []PaymentSchedule
	if err := c.get(ctx, "/api/payment-schedules", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GeneratePaymentSchedules(ctx context.Context, in ScheduleGenerateRequest) ([]PaymentSchedule, error) {
	var out []PaymentSchedule
	err := c.post(ctx, "/api/payment-schedules/generate", in, &out)
	return out, err
}

func (c *Client) UpdatePaymentSchedule(ctx context.Context, id int64, in PaymentSchedule) (PaymentSchedule, error) {
	var out PaymentSchedule
	err := c.put(ctx, fmt.Sprintf("/api/payment-schedules/%d", id), in, &out)
	return out, err
}

func (c *Client) DeletePaymentSchedule(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/payment-schedules/%d", id))
}

// Reallocate moves a posted amount to a different funding source.
func (c *Client) Reallocate(ctx context.Context, transactionID string, targetFundingSourceID int64, amount decimal.Decimal, memo string) error {
	body := map[string]interface{}{
		"transaction_id":           transactionID,
		"target_funding_source_id": targetFundingSourceID,
		"amount":                   amount,
		"memo":                     memo,
	}
	return c.post(ctx, "/api/reallocate", body, nil)
}

func (c *Client) ListDeliverables(ctx context.Context) ([]DeliverableLot, error) {
	var out []DeliverableLot
	if err := c.get(ctx, "/api/deliverables", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCheckpointTypes(ctx context.Context) ([]CheckpointType, error) {
	var out []CheckpointType
	if err := c.get(ctx, "/api/deliverables/checkpoints", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ApplyDeliverableTemplate(ctx context.Context, in DeliverableTemplateApply) ([]DeliverableLot, error) {
	var out []DeliverableLot
	err := c.post(ctx, "/api/deliverables/template/apply", in, &out)
	return out, err
}

func (c *Client) CreateLot(ctx context.Context, in DeliverableLot) (DeliverableLot, error) {
	var out DeliverableLot
	err := c.post(ctx, fmt.Sprintf("/api/po-lines/%d/lots", in.POLineID), in, &out)
	return out, err
}

func (c *Client) UpdateMilestone(ctx context.Context, id int64, in Milestone) (Milestone, error) {
	var out Milestone
	err := c.put(ctx, fmt.Sprintf("/api/milestones/%d", id), in, &out)
	return out, err
}

func (c *Client) ListReports(ctx context.Context) ([]ReportDefinition, error) {
	var out []ReportDefinition
	if err := c.get(ctx, "/api/reports", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SaveReport(ctx context.Context, in ReportDefinition) (ReportDefinition, error) {
	var out ReportDefinition
	err := c.post(ctx, "/api/report/save", in, &out)
	return out, err
}

func (c *Client) RunSavedReport(ctx context.Context, id int64) (ReportResult, error) {
	var out ReportResult
	err := c.get(ctx, fmt.Sprintf("/api/report/run/%d", id), &out)
	return out, err
}

func (c *Client) RunAdHocReport(ctx context.Context, config map[string]interface{}) (ReportResult, error) {
	var out ReportResult
	err := c.post(ctx, "/api/report/run", config, &out)
	return out, err
}
