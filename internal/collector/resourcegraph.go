// Package collector fetches the per-assessment resource inventory from
// Azure Resource Graph.
package collector

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"
	"github.com/azurelens/backend-go/internal/domain"
	"go.uber.org/zap"
)

// Collector returns a flat resource snapshot for a set of subscriptions
type Collector interface {
	Collect(ctx context.Context, subscriptionIDs []string) ([]domain.Resource, error)
}

const inventoryQuery = `
	resources
	| project
		id,
		name,
		type,
		resourceGroup,
		location,
		subscriptionId,
		kind,
		tags,
		properties,
		sku
	| order by id asc
`

// ResourceGraphCollector queries Azure Resource Graph with paging
type ResourceGraphCollector struct {
	client *armresourcegraph.Client
	logger *zap.Logger
}

// NewResourceGraphCollector creates a collector from a token credential
func NewResourceGraphCollector(cred azcore.TokenCredential, logger *zap.Logger) (*ResourceGraphCollector, error) {
	client, err := armresourcegraph.NewClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("create resource graph client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceGraphCollector{client: client, logger: logger}, nil
}

// Collect fetches all resources in the given subscriptions, following
// skip tokens until the result set is exhausted.
func (c *ResourceGraphCollector) Collect(ctx context.Context, subscriptionIDs []string) ([]domain.Resource, error) {
	subs := make([]*string, 0, len(subscriptionIDs))
	for i := range subscriptionIDs {
		subs = append(subs, &subscriptionIDs[i])
	}

	var resources []domain.Resource
	var skipToken *string
	for {
		req := armresourcegraph.QueryRequest{
			Query:         to.Ptr(inventoryQuery),
			Subscriptions: subs,
		}
		if skipToken != nil {
			req.Options = &armresourcegraph.QueryRequestOptions{SkipToken: skipToken}
		}

		result, err := c.client.Resources(ctx, req, nil)
		if err != nil {
			return nil, fmt.Errorf("query resource graph: %w", err)
		}

		rows, ok := result.Data.([]any)
		if !ok {
			return nil, fmt.Errorf("unexpected resource graph result format %T", result.Data)
		}
		for _, item := range rows {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			resources = append(resources, decodeRow(row))
		}

		if result.SkipToken == nil || *result.SkipToken == "" {
			break
		}
		skipToken = result.SkipToken
	}

	c.logger.Info("resource inventory collected",
		zap.Int("resources", len(resources)),
		zap.Int("subscriptions", len(subscriptionIDs)),
	)
	return resources, nil
}

// decodeRow maps one resource graph row onto the domain snapshot type
func decodeRow(row map[string]any) domain.Resource {
	return domain.Resource{
		ID:             getString(row, "id"),
		Name:           getString(row, "name"),
		Type:           getString(row, "type"),
		ResourceGroup:  getString(row, "resourceGroup"),
		Location:       getString(row, "location"),
		SubscriptionID: getString(row, "subscriptionId"),
		Kind:           getString(row, "kind"),
		Tags:           getStringMap(row, "tags"),
		Properties:     getRaw(row, "properties"),
		SKU:            getRaw(row, "sku"),
	}
}

// getString safely extracts a string column from a result row
func getString(row map[string]any, key string) string {
	if v, ok := row[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getStringMap(row map[string]any, key string) map[string]string {
	v, ok := row[key].(map[string]any)
	if !ok || len(v) == 0 {
		return nil
	}
	out := make(map[string]string, len(v))
	for k, val := range v {
		if s, ok := val.(string); ok {
			out[k] = s
		}
	}
	return out
}

// getRaw re-encodes a nested column as opaque JSON. Values that cannot be
// re-encoded are dropped: downstream analyzers treat an empty blob as
// "feature absent".
func getRaw(row map[string]any, key string) json.RawMessage {
	v, ok := row[key]
	if !ok || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

// StaticCollector serves a fixed snapshot; used in tests and local runs
// without Azure credentials.
type StaticCollector struct {
	Resources []domain.Resource
}

// Collect returns the fixed snapshot
func (s *StaticCollector) Collect(_ context.Context, _ []string) ([]domain.Resource, error) {
	return s.Resources, nil
}
