package domain

// SentenceGloss holds the normalized gloss of one sentence of a text block.
type SentenceGloss struct {
	Sentence string
	Lines    []string
}

// Glossary holds the outcome of a glossary lookup over a text block.
type Glossary struct {
	Text      string
	Sentences []SentenceGloss
	// Lines are the gloss lines of every sentence, with one empty line
	// between consecutive sentences.
	Lines []string
}

// Caption renders the glossary lines as caption comment lines.
func (g Glossary) Caption() []string {
	out := make([]string, 0, len(g.Lines))
	for _, line := range g.Lines {
		out = append(out, "# "+line)
	}
	return out
}
