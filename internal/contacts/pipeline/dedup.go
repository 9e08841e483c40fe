package pipeline

// Deduplicate keeps the first contact for every phone. Contacts without a
// phone are all kept unless collapseBlank is set, in which case only the
// first of them survives like any other repeated value.
func Deduplicate(contacts []Contact, collapseBlank bool) ([]Contact, int) {
	seen := make(map[string]struct{}, len(contacts))
	kept := make([]Contact, 0, len(contacts))

	for _, c := range contacts {
		if c.Phone == "" && !collapseBlank {
			kept = append(kept, c)
			continue
		}
		if _, dup := seen[c.Phone]; dup {
			continue
		}
		seen[c.Phone] = struct{}{}
		kept = append(kept, c)
	}

	return kept, len(contacts) - len(kept)
}
