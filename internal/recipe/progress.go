package recipe

import "github.com/tomz197/faceslice/internal/object"

// Verdict is the outcome of cutting one object.
type Verdict int

const (
	// VerdictFail ends the round: the hazard, a kind the recipe does not
	// need, or a kind that is already fulfilled.
	VerdictFail Verdict = iota
	// VerdictCut counts toward the recipe.
	VerdictCut
	// VerdictComplete is a legal cut that fulfilled the whole recipe.
	VerdictComplete
)

func (v Verdict) String() string {
	switch v {
	case VerdictFail:
		return "fail"
	case VerdictCut:
		return "cut"
	case VerdictComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Progress counts legal cuts against a recipe. Counts never exceed the
// requirement: an over-requirement cut fails and changes nothing.
type Progress struct {
	recipe Recipe
	cut    [object.NumKinds]int
}

// NewProgress starts empty progress toward r.
func NewProgress(r Recipe) *Progress {
	return &Progress{recipe: r}
}

// Recipe returns the recipe being tracked.
func (p *Progress) Recipe() Recipe {
	return p.recipe
}

// Cut judges a cut of kind k and records it if legal.
func (p *Progress) Cut(k object.Kind) Verdict {
	if !k.Valid() || k.IsHazard() {
		return VerdictFail
	}
	need := p.recipe.Need(k)
	if need == 0 || p.cut[k] >= need {
		return VerdictFail
	}
	p.cut[k]++
	if p.Complete() {
		return VerdictComplete
	}
	return VerdictCut
}

// Count returns the legal cuts recorded for k.
func (p *Progress) Count(k object.Kind) int {
	if !k.Valid() {
		return 0
	}
	return p.cut[k]
}

// Complete reports whether every required count is met.
func (p *Progress) Complete() bool {
	for _, k := range p.recipe.Kinds() {
		if p.cut[k] < p.recipe.Need(k) {
			return false
		}
	}
	return true
}

// Reset clears all counts.
func (p *Progress) Reset() {
	p.cut = [object.NumKinds]int{}
}
