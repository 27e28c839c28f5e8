package orders

import "strings"

// ChecklistItem is one entry of the repair checklist shown on orders and
// protocols.
type ChecklistItem struct {
	Key   string
	Label string
}

var checklistItems = []ChecklistItem{
	{Key: "brakes", Label: "Brzdy"},
	{Key: "shifting", Label: "Radenie"},
	{Key: "tyre_pressure", Label: "Tlak v pneumatikách"},
	{Key: "bearings", Label: "Ložiská"},
	{Key: "torque", Label: "Dotiahnutie skrutiek"},
	{Key: "chain", Label: "Reťaz a pohon"},
	{Key: "wheels", Label: "Kolesá a výplet"},
	{Key: "cleaning", Label: "Čistenie"},
}

// ChecklistItems lists the checklist entries in display order.
func ChecklistItems() []ChecklistItem {
	items := make([]ChecklistItem, len(checklistItems))
	copy(items, checklistItems)
	return items
}

// NormalizeChecklist maps submitted values onto the defined checklist keys.
// Unknown keys are dropped and missing keys become false.
func NormalizeChecklist(submitted map[string]bool) map[string]bool {
	normalized := make(map[string]bool, len(checklistItems))
	for _, item := range checklistItems {
		normalized[item.Key] = submitted[item.Key]
	}
	return normalized
}

// ChecklistText renders the checked items for plain-text emails, one
// "OK: <label>" line per checked item, in display order.
func ChecklistText(checklist map[string]bool) string {
	var lines []string
	for _, item := range checklistItems {
		if checklist[item.Key] {
			lines = append(lines, "OK: "+item.Label)
		}
	}
	if len(lines) == 0 {
		return "Checklist nebol vyplnený."
	}
	return strings.Join(lines, "\n")
}
