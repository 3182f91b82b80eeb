package services

import (
	"context"
	"log/slog"

	"market-service/internal/models"
)

// maxGroupPreview is how many items a group shows before collapsing the rest.
const maxGroupPreview = 3

type ContractLookup interface {
	GetByID(ctx context.Context, id string) (*models.Contract, error)
}

type RenderedNotification struct {
	models.Notification
	ReasonPhrase  string `json:"reasonPhrase"`
	SummaryPhrase string `json:"summaryPhrase"`
	Text          string `json:"text"`
	Label         string `json:"label"`
	Title         string `json:"title,omitempty"`
	URL           string `json:"url"`
	TitleURL      string `json:"titleUrl,omitempty"`
	Permalink     string `json:"permalink,omitempty"`
}

type RenderedGroup struct {
	ID               string                 `json:"id"`
	SourceContractID string                 `json:"sourceContractId,omitempty"`
	TimePeriod       string                 `json:"timePeriod"`
	IsSeen           bool                   `json:"isSeen"`
	Header           string                 `json:"header"`
	HeaderURL        string                 `json:"headerUrl,omitempty"`
	Items            []RenderedNotification `json:"items"`
	MoreCount        int                    `json:"moreCount,omitempty"`
}

type NotificationRenderer struct {
	contracts ContractLookup
	legacy    *LegacyTextResolver
	domain    string
}

func NewNotificationRenderer(contracts ContractLookup, legacy *LegacyTextResolver, domain string) *NotificationRenderer {
	return &NotificationRenderer{contracts: contracts, legacy: legacy, domain: domain}
}

// contractCache avoids fetching the same contract once per notification.
type contractCache map[string]*models.Contract

func (r *NotificationRenderer) contract(ctx context.Context, cache contractCache, id string) *models.Contract {
	if id == "" {
		return nil
	}
	if c, ok := cache[id]; ok {
		return c
	}
	c, err := r.contracts.GetByID(ctx, id)
	if err != nil {
		slog.Warn("failed to load contract for notification", "contract_id", id, "error", err)
		c = nil
	}
	cache[id] = c
	return c
}

func (r *NotificationRenderer) RenderGroups(ctx context.Context, groups []models.NotificationGroup) []RenderedGroup {
	cache := make(contractCache)
	out := make([]RenderedGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, r.renderGroup(ctx, cache, g))
	}
	return out
}

func (r *NotificationRenderer) renderGroup(ctx context.Context, cache contractCache, g models.NotificationGroup) RenderedGroup {
	rg := RenderedGroup{
		ID:               g.ID,
		SourceContractID: g.SourceContractID,
		TimePeriod:       g.TimePeriod,
		IsSeen:           g.IsSeen,
	}

	// Single notifications render in full; larger groups render summaries.
	justSummary := len(g.Notifications) > 1
	for _, n := range g.Notifications {
		rg.Items = append(rg.Items, r.render(ctx, cache, &n, justSummary))
	}

	if justSummary {
		first := &g.Notifications[0]
		var contract *models.Contract
		if needsContract(first) || first.SourceContractTitle == "" {
			contract = r.contract(ctx, cache, first.SourceContractID)
		}
		if title := contractTitle(first, contract); title != "" {
			rg.Header = "Activity on " + title
			rg.HeaderURL = contractPath(first, contract)
		} else {
			rg.Header = "Other activity"
		}
		if len(rg.Items) > maxGroupPreview {
			rg.MoreCount = len(rg.Items) - maxGroupPreview
		}
	}
	return rg
}

func needsContract(n *models.Notification) bool {
	return n.SourceContractID != "" && (n.SourceContractSlug == "" || n.SourceContractCreatorUsername == "")
}

func (r *NotificationRenderer) render(ctx context.Context, cache contractCache, n *models.Notification, justSummary bool) RenderedNotification {
	var contract *models.Contract
	if needsContract(n) || (n.SourceText == "" && n.SourceType == models.SourceTypeContract) {
		contract = r.contract(ctx, cache, n.SourceContractID)
	}

	text := r.legacy.DisplayText(ctx, n, contract)
	url := SourceURL(n, contract)

	rn := RenderedNotification{
		Notification:  *n,
		ReasonPhrase:  ReasonPhrase(n, contract, false),
		SummaryPhrase: SummaryPhrase(n, contract),
		Text:          text,
		Label:         TextLabel(n, contract, text, justSummary),
		URL:           url,
	}
	if !justSummary {
		rn.Title = contractTitle(n, contract)
		rn.TitleURL = contractPath(n, contract)
	}
	if url != "" && r.domain != "" {
		rn.Permalink = "https://" + r.domain + url
	}
	return rn
}

func contractTitle(n *models.Notification, contract *models.Contract) string {
	if contract != nil && contract.Question != "" {
		return contract.Question
	}
	if n.SourceContractTitle != "" {
		return n.SourceContractTitle
	}
	return n.SourceTitle
}

func sourceAnchor(n *models.Notification) string {
	switch n.SourceType {
	case models.SourceTypeAnswer:
		return "answer-" + n.SourceID
	case models.SourceTypeContract:
		return ""
	default:
		return n.SourceID
	}
}

// SourceURL is the in-app path a notification links to.
func SourceURL(n *models.Notification, contract *models.Contract) string {
	switch {
	case n.SourceType == models.SourceTypeFollow:
		return "/" + n.SourceUserUsername
	case n.SourceType == models.SourceTypeGroup && n.SourceSlug != "":
		return "/group/" + n.SourceSlug
	case n.SourceContractCreatorUsername != "" && n.SourceContractSlug != "":
		return "/" + n.SourceContractCreatorUsername + "/" + n.SourceContractSlug + "#" + sourceAnchor(n)
	case contract != nil:
		return "/" + contract.CreatorUsername + "/" + contract.Slug + "#" + sourceAnchor(n)
	default:
		return ""
	}
}

func contractPath(n *models.Notification, contract *models.Contract) string {
	switch {
	case n.SourceContractCreatorUsername != "" && n.SourceContractSlug != "":
		return "/" + n.SourceContractCreatorUsername + "/" + n.SourceContractSlug
	case n.SourceType == models.SourceTypeGroup && n.SourceSlug != "":
		return "/group/" + n.SourceSlug
	case contract != nil:
		return "/" + contract.CreatorUsername + "/" + contract.Slug
	default:
		return ""
	}
}
