package models

// DefaultProfiles returns the profiles a fresh pool starts with.
func DefaultProfiles() []Profile {
	return []Profile{
		{ID: "u1", Name: "FABIO", Password: "123", Role: RoleUser},
		{ID: "u2", Name: "DINA", Password: "123", Role: RoleUser},
		{ID: "u3", Name: "JUNIOR", Password: "123", Role: RoleUser},
		{ID: "u4", Name: "RONALDO", Password: "123", Role: RoleUser},
		{ID: "admin", Name: "ADM", Password: "1234", Role: RoleAdmin},
	}
}

// DefaultMatches returns the seed fixtures. Every call builds a fresh slice so
// callers may modify the result.
func DefaultMatches() []Match {
	return []Match{
		{
			ID:        "m1",
			TeamA:     "Brasil",
			TeamB:     "Argentina",
			FlagA:     "bra",
			FlagB:     "arg",
			Date:      "19/06 - 21:00",
			Location:  "Mangueirão, Belém",
			Status:    StatusScheduled,
			IsSpecial: true,
		},
		{
			ID:       "m2",
			TeamA:    "França",
			TeamB:    "Alemanha",
			FlagA:    "fra",
			FlagB:    "ger",
			Date:     "20/06 - 15:00",
			Location: "Copa 2026 - Grupo A",
			Status:   StatusScheduled,
		},
		{
			ID:       "m3",
			TeamA:    "Espanha",
			TeamB:    "Itália",
			FlagA:    "esp",
			FlagB:    "ita",
			Date:     "21/06 - 18:00",
			Location: "Copa 2026 - Grupo B",
			Status:   StatusScheduled,
		},
		{
			ID:       "m4",
			TeamA:    "EUA",
			TeamB:    "México",
			FlagA:    "usa",
			FlagB:    "mex",
			Date:     "22/06 - 12:00",
			Location: "Copa 2026 - Grupo C",
			Status:   StatusScheduled,
		},
	}
}
