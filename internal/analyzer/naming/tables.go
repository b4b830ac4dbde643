package naming

import "strings"

// canonicalAbbreviations maps lowercase Azure resource types to the
// abbreviation used in generated name suggestions.
var canonicalAbbreviations = map[string]string{
	"microsoft.compute/virtualmachines":           "vm",
	"microsoft.compute/virtualmachinescalesets":   "vmss",
	"microsoft.compute/disks":                     "disk",
	"microsoft.compute/availabilitysets":          "avail",
	"microsoft.storage/storageaccounts":           "st",
	"microsoft.keyvault/vaults":                   "kv",
	"microsoft.network/virtualnetworks":           "vnet",
	"microsoft.network/virtualnetworks/subnets":   "snet",
	"microsoft.network/networksecuritygroups":     "nsg",
	"microsoft.network/publicipaddresses":         "pip",
	"microsoft.network/networkinterfaces":         "nic",
	"microsoft.network/loadbalancers":             "lb",
	"microsoft.network/applicationgateways":       "agw",
	"microsoft.web/sites":                         "app",
	"microsoft.web/serverfarms":                   "plan",
	"microsoft.sql/servers":                       "sql",
	"microsoft.sql/servers/databases":             "sqldb",
	"microsoft.documentdb/databaseaccounts":       "cosmos",
	"microsoft.cache/redis":                       "redis",
	"microsoft.containerservice/managedclusters":  "aks",
	"microsoft.containerregistry/registries":      "acr",
	"microsoft.operationalinsights/workspaces":    "log",
	"microsoft.insights/components":               "appi",
	"microsoft.recoveryservices/vaults":           "rsv",
	"microsoft.servicebus/namespaces":             "sb",
	"microsoft.eventhub/namespaces":               "evh",
	"microsoft.logic/workflows":                   "logic",
	"microsoft.resources/resourcegroups":          "rg",
	"microsoft.managedidentity/userassignedidentities": "id",
}

// knownAbbreviations is the lookup set for classifying name parts as
// resource-type components. It covers the canonical abbreviations plus
// common variants seen in the wild.
var knownAbbreviations = func() map[string]bool {
	set := map[string]bool{
		"func": true, "fn": true, "sa": true, "stor": true, "sqlsrv": true,
		"db": true, "law": true, "ase": true, "apim": true, "afw": true,
		"vgw": true, "bas": true, "dns": true, "cdn": true,
	}
	for _, abbr := range canonicalAbbreviations {
		set[abbr] = true
	}
	return set
}()

// environmentKeywords is the fixed keyword list for environment detection
var environmentKeywords = map[string]bool{
	"prod": true, "production": true, "prd": true,
	"dev": true, "development": true,
	"test": true, "tst": true, "qa": true,
	"stage": true, "staging": true, "stg": true,
	"uat": true, "sandbox": true, "sbx": true,
	"nonprod": true, "dr": true,
}

// knownServices is the service-name table consulted before the length
// fallback in the identification chain
var knownServices = map[string]bool{
	"web": true, "api": true, "auth": true, "core": true, "data": true,
	"billing": true, "payments": true, "orders": true, "catalog": true,
	"frontend": true, "backend": true, "gateway": true, "ingest": true,
	"reporting": true, "search": true, "worker": true, "shared": true,
}

// IsEnvironmentKeyword reports whether a name part is a known environment
func IsEnvironmentKeyword(part string) bool {
	return environmentKeywords[strings.ToLower(part)]
}

// CanonicalAbbreviation returns the abbreviation used for a resource type
// in name suggestions, and whether one is defined.
func CanonicalAbbreviation(resourceType string) (string, bool) {
	abbr, ok := canonicalAbbreviations[strings.ToLower(resourceType)]
	return abbr, ok
}
