package domain

import (
	"encoding/json"
	"strings"
)

const storageAccountType = "microsoft.storage/storageaccounts"

// Resource is an immutable snapshot of one Azure resource fetched per
// assessment run. Properties and SKU are kept opaque; analyzers decode
// only the keys they care about.
type Resource struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Type           string            `json:"type"`
	ResourceGroup  string            `json:"resource_group"`
	Location       string            `json:"location"`
	SubscriptionID string            `json:"subscription_id"`
	Kind           string            `json:"kind,omitempty"`
	Tags           map[string]string `json:"tags,omitempty"`
	Properties     json.RawMessage   `json:"properties,omitempty"`
	SKU            json.RawMessage   `json:"sku,omitempty"`
}

// IsStorageAccount reports whether the resource is a storage account.
// Storage account names disallow separators, so naming analysis routes
// them through the concatenated-name path.
func (r Resource) IsStorageAccount() bool {
	return strings.EqualFold(r.Type, storageAccountType)
}

// PropertyMap decodes the opaque properties blob. Malformed JSON returns
// nil: the resource is treated as having no detectable features rather
// than surfacing a data-quality error.
func (r Resource) PropertyMap() map[string]any {
	if len(r.Properties) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(r.Properties, &m); err != nil {
		return nil
	}
	return m
}

// SKUMap decodes the opaque sku blob with the same leniency as PropertyMap.
func (r Resource) SKUMap() map[string]any {
	if len(r.SKU) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(r.SKU, &m); err != nil {
		return nil
	}
	return m
}
