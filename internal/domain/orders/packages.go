package orders

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrUnknownPackage is returned when a submitted package key does not exist.
// The text is the exact message the clients display.
var ErrUnknownPackage = errors.New("Vybraný balík neexistuje.")

// ServicePackage is a predefined bundle of work: applying it overwrites the
// order's price, work summary, and checklist.
type ServicePackage struct {
	Key           string
	Label         string
	Price         decimal.Decimal
	WorkDone      string
	ChecklistKeys []string
}

var servicePackages = []ServicePackage{
	{
		Key:           "basic",
		Label:         "Basic servis",
		Price:         decimal.RequireFromString("29.00"),
		WorkDone:      "Základná kontrola bicykla, dofúkanie pneumatík, kontrola bŕzd a radenia.",
		ChecklistKeys: []string{"brakes", "shifting", "tyre_pressure", "torque"},
	},
	{
		Key:           "full",
		Label:         "Full servis",
		Price:         decimal.RequireFromString("69.00"),
		WorkDone:      "Kompletný servis pohonu, bŕzd, radenia, ložísk a finálne čistenie bicykla.",
		ChecklistKeys: []string{"brakes", "shifting", "tyre_pressure", "bearings", "torque", "chain", "wheels", "cleaning"},
	},
	{
		Key:           "brake_setup",
		Label:         "Brake setup",
		Price:         decimal.RequireFromString("39.00"),
		WorkDone:      "Nastavenie bŕzd, centrovanie kotúčov, kontrola opotrebenia platničiek a test funkčnosti.",
		ChecklistKeys: []string{"brakes", "torque", "wheels"},
	},
}

// ServicePackages lists the packages in display order.
func ServicePackages() []ServicePackage {
	packages := make([]ServicePackage, len(servicePackages))
	copy(packages, servicePackages)
	return packages
}

// PackageByKey looks up a package by its key.
func PackageByKey(key string) (*ServicePackage, error) {
	for i := range servicePackages {
		if servicePackages[i].Key == key {
			pkg := servicePackages[i]
			return &pkg, nil
		}
	}
	return nil, ErrUnknownPackage
}

// Apply overwrites the order's price, work summary, and checklist with the
// package contents. Checklist keys outside the package are set to false.
func (p *ServicePackage) Apply(order *ServiceOrder) {
	order.Price = p.Price
	order.WorkDone = p.WorkDone

	included := make(map[string]bool, len(p.ChecklistKeys))
	for _, key := range p.ChecklistKeys {
		included[key] = true
	}
	order.Checklist = NormalizeChecklist(included)
}
