package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// LoadAzureSubscriptions resolves the default subscription scope. The
// AZURE_SUBSCRIPTION_IDS environment variable (comma-separated) wins;
// otherwise the Azure CLI profile at ~/.azure/config supplies the default
// subscription. An empty result means query all reachable subscriptions.
func LoadAzureSubscriptions() []string {
	if v := os.Getenv("AZURE_SUBSCRIPTION_IDS"); v != "" {
		return splitCSV(v)
	}
	if sub := azureCLIDefaultSubscription(); sub != "" {
		return []string{sub}
	}
	return nil
}

func azureCLIDefaultSubscription() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return readAzureConfigSubscription(filepath.Join(home, ".azure", "config"))
}

// readAzureConfigSubscription pulls [defaults] subscription from an Azure
// CLI config file. Missing file or key yields "".
func readAzureConfigSubscription(path string) string {
	cfg, err := ini.Load(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cfg.Section("defaults").Key("subscription").String())
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
