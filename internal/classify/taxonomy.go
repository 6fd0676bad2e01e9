package classify

import "strings"

// Category is one class of the fixed energy-storage taxonomy.
type Category string

const (
	StorageTechnology            Category = "storage-technology"
	StorageProject               Category = "storage-project"
	CompanyEquipmentManufacturer Category = "company-equipment-manufacturer"
	CompanySystemIntegrator      Category = "company-system-integrator"
	CompanyProjectDeveloper      Category = "company-project-developer"
	CompanyTechnologyProvider    Category = "company-technology-provider"
	CompanyProjectInvestor       Category = "company-project-investor"
	CompanyEPC                   Category = "company-EPC"
	StoragePolicy                Category = "storage-policy"
	StorageMarketAnalysis        Category = "storage-market-analysis"
	OtherStorageRelated          Category = "other-storage-related"
	NotStorage                   Category = "not-storage"
)

// Categories lists the closed taxonomy in prompt order.
var Categories = []Category{
	StorageTechnology,
	StorageProject,
	CompanyEquipmentManufacturer,
	CompanySystemIntegrator,
	CompanyProjectDeveloper,
	CompanyTechnologyProvider,
	CompanyProjectInvestor,
	CompanyEPC,
	StoragePolicy,
	StorageMarketAnalysis,
	OtherStorageRelated,
	NotStorage,
}

// CompanyType tags a company role. A subject may carry several at once,
// e.g. a system integrator that also does EPC work.
type CompanyType string

// ParseCompanyTypes splits a comma-joined company-type field as returned by
// the classifier model. Empty segments are dropped.
func ParseCompanyTypes(s string) []CompanyType {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	types := make([]CompanyType, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			types = append(types, CompanyType(p))
		}
	}
	return types
}

// JoinCompanyTypes renders company types in the comma-joined export form.
func JoinCompanyTypes(types []CompanyType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
