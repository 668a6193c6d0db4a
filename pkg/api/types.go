package api

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"
)

// Usage is the token accounting breakdown returned with completions and edits.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Pairs returns the usage fields as ordered (column, value) pairs for display.
func (u Usage) Pairs() ([]string, []any) {
	return []string{"prompt_tokens", "completion_tokens", "total_tokens"},
		[]any{u.PromptTokens, u.CompletionTokens, u.TotalTokens}
}

// CompletionResult is the consumed subset of a completion response.
type CompletionResult struct {
	Text         string
	FinishReason string
	Usage        Usage
	Raw          string
}

// EditResult is the consumed subset of an edit response.
type EditResult struct {
	Texts []string
	Usage Usage
	Raw   string
}

// Text returns the first generated edit.
func (r EditResult) Text() string {
	if len(r.Texts) == 0 {
		return ""
	}
	return r.Texts[0]
}

// PermissionInfo is the scalar subset of a model permission object.
type PermissionInfo struct {
	ID                 string
	Object             string
	CreatedAt          int64
	AllowCreateEngine  bool
	AllowSampling      bool
	AllowLogprobs      bool
	AllowSearchIndices bool
	AllowView          bool
	AllowFineTuning    bool
	Organization       string
	IsBlocking         bool
}

// Columns returns the display columns for a permission object.
func (p PermissionInfo) Columns() []string {
	return []string{
		"id", "object", "created", "allow_create_engine", "allow_sampling",
		"allow_logprobs", "allow_search_indices", "allow_view",
		"allow_fine_tuning", "organization", "is_blocking",
	}
}

// Values returns the display values for a permission object, in column order.
func (p PermissionInfo) Values() []any {
	return []any{
		p.ID, p.Object, p.CreatedAt, p.AllowCreateEngine, p.AllowSampling,
		p.AllowLogprobs, p.AllowSearchIndices, p.AllowView,
		p.AllowFineTuning, p.Organization, p.IsBlocking,
	}
}

// ModelInfo is the consumed subset of a model object. Only scalar
// attributes are listed; the permission objects are shown separately.
type ModelInfo struct {
	ID          string
	Object      string
	CreatedAt   int64
	OwnedBy     string
	Root        string
	Parent      string
	Permissions []PermissionInfo
}

// Columns returns the scalar display columns for a model.
func (m ModelInfo) Columns() []string {
	return []string{"id", "object", "created", "owned_by", "root", "parent"}
}

// Values returns the scalar display values for a model, in column order.
func (m ModelInfo) Values() []any {
	return []any{m.ID, m.Object, m.CreatedAt, m.OwnedBy, m.Root, m.Parent}
}

// ImageData is one generated image, in exactly one of the two response formats.
type ImageData struct {
	B64JSON string
	URL     string
}

// FineTuneInfo is the scalar subset of a fine-tune job.
type FineTuneInfo struct {
	ID             string
	Object         string
	Model          string
	FineTunedModel string
	OrganizationID string
	Status         string
	CreatedAt      int64
	UpdatedAt      int64
}

// Columns returns the display columns for a fine-tune job.
func (f FineTuneInfo) Columns() []string {
	return []string{
		"id", "object", "model", "fine_tuned_model",
		"organization_id", "status", "created_at", "updated_at",
	}
}

// Values returns the display values for a fine-tune job, in column order.
func (f FineTuneInfo) Values() []any {
	return []any{
		f.ID, f.Object, f.Model, f.FineTunedModel,
		f.OrganizationID, f.Status, f.CreatedAt, f.UpdatedAt,
	}
}

func usageFromSDK(u openai.Usage) Usage {
	return Usage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

func permissionFromSDK(p openai.Permission) PermissionInfo {
	return PermissionInfo{
		ID:                 p.ID,
		Object:             p.Object,
		CreatedAt:          p.CreatedAt,
		AllowCreateEngine:  p.AllowCreateEngine,
		AllowSampling:      p.AllowSampling,
		AllowLogprobs:      p.AllowLogprobs,
		AllowSearchIndices: p.AllowSearchIndices,
		AllowView:          p.AllowView,
		AllowFineTuning:    p.AllowFineTuning,
		Organization:       p.Organization,
		IsBlocking:         p.IsBlocking,
	}
}

func modelFromSDK(m openai.Model) ModelInfo {
	info := ModelInfo{
		ID:        m.ID,
		Object:    m.Object,
		CreatedAt: m.CreatedAt,
		OwnedBy:   m.OwnedBy,
		Root:      m.Root,
		Parent:    m.Parent,
	}
	for _, p := range m.Permission {
		info.Permissions = append(info.Permissions, permissionFromSDK(p))
	}
	return info
}

func fineTuneFromSDK(f openai.FineTune) FineTuneInfo {
	return FineTuneInfo{
		ID:             f.ID,
		Object:         f.Object,
		Model:          f.Model,
		FineTunedModel: f.FineTunedModel,
		OrganizationID: f.OrganizationID,
		Status:         f.Status,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func rawJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
