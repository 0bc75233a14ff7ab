package domain

// AlignTitles reshapes title summaries to match the mini-idea list exactly:
// entry i keeps the supplied title at index i when present, missing entries
// become empty strings, and excess entries are discarded. Applying it to an
// already-aligned pair returns the same result.
func AlignTitles(miniIdeas, titles []string) []string {
	aligned := make([]string, len(miniIdeas))
	for i := range miniIdeas {
		if i < len(titles) {
			aligned[i] = titles[i]
		}
	}
	return aligned
}

// Normalize enforces the stored-record invariants on an idea: a non-nil
// mini-idea list and title summaries of exactly the same length.
func (i Idea) Normalize() Idea {
	if i.MiniIdeas == nil {
		i.MiniIdeas = []string{}
	}
	i.TitleSummaries = AlignTitles(i.MiniIdeas, i.TitleSummaries)
	return i
}
