package locale

import "strings"

const (
	DefaultRegion = "BR"
)

type Country struct {
	Code            string          // ISO 3166-1 alpha-2 country code (e.g., "BR")
	Name            string          // Human-readable country name
	CallingCode     string          // Digits prepended to national numbers (e.g., "55")
	DefaultAreaCode string          // Area code assumed for numbers dialed without one
	MobilePrefix    string          // Digit added in front of legacy 8-digit mobile numbers
	AreaCodes       map[string]bool // Valid two-digit area codes (DDD)
}

var (
	Countries = map[string]Country{
		"BR": {
			Code:            "BR",
			Name:            "Brazil",
			CallingCode:     "55",
			DefaultAreaCode: "85",
			MobilePrefix:    "9",
			AreaCodes: toSet(
				"11", "12", "13", "14", "15", "16", "17", "18", "19",
				"21", "22", "24", "27", "28",
				"31", "32", "33", "34", "35", "37", "38",
				"41", "42", "43", "44", "45", "46", "47", "48", "49",
				"51", "53", "54", "55",
				"61", "62", "63", "64", "65", "66", "67", "68", "69",
				"71", "73", "74", "75", "77", "79",
				"81", "82", "83", "84", "85", "86", "87", "88", "89",
				"91", "92", "93", "94", "95", "96", "97", "98", "99",
			),
		},
	}
)

// Lookup returns the country registered under the given ISO code, case-insensitively.
func Lookup(code string) (Country, bool) {
	c, ok := Countries[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

func (c Country) IsValidAreaCode(ddd string) bool {
	return c.AreaCodes[ddd]
}

func toSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
