package nma

import (
	"github.com/evisynth/nmakit/pkg/errors"
)

// TreatmentComparison is one pairwise comparison extracted from a trial.
// The unordered pair (TreatmentA, TreatmentB) identifies the comparison;
// multiple records may share a StudyID (multi-arm trial) or a treatment
// pair (repeated direct evidence).
//
// Treatment names are case-sensitive, exact-match identifiers. No fuzzy
// matching or normalization is performed: a typo produces a distinct
// node in the comparison network.
//
// EffectSize and StandardError are carried for callers that extract
// per-comparison estimates; the geometry engine itself never reads them.
// The engine never mutates its inputs.
type TreatmentComparison struct {
	StudyID       string  `json:"study_id"`
	TreatmentA    string  `json:"treatment_a"`
	TreatmentB    string  `json:"treatment_b"`
	NA            int     `json:"n_a,omitempty"`
	NB            int     `json:"n_b,omitempty"`
	EffectSize    float64 `json:"effect_size,omitempty"`
	StandardError float64 `json:"standard_error,omitempty"`
}

// TreatmentEffect is a per-treatment point estimate versus a common
// reference, used as input to the rank simulation. The caller guarantees
// all effects are on a consistent scale: same reference treatment, same
// direction convention.
type TreatmentEffect struct {
	Treatment     string  `json:"treatment"`
	EffectSize    float64 `json:"effect_size"`
	StandardError float64 `json:"standard_error"`
	IsReference   bool    `json:"is_reference,omitempty"`
}

// ValidateComparisons checks the preconditions for building a comparison
// network. It rejects empty inputs and structurally broken records so
// the engine never has to produce NaN or half-built assessments.
func ValidateComparisons(comparisons []TreatmentComparison) error {
	if len(comparisons) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "comparison list is empty")
	}

	for i, c := range comparisons {
		if err := errors.ValidateStudyID(c.StudyID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "comparison %d", i)
		}
		if err := errors.ValidateTreatmentName(c.TreatmentA); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "comparison %d", i)
		}
		if err := errors.ValidateTreatmentName(c.TreatmentB); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "comparison %d", i)
		}
		if c.TreatmentA == c.TreatmentB {
			return errors.New(errors.ErrCodeInvalidInput,
				"comparison %d compares treatment %q with itself", i, c.TreatmentA)
		}
		if c.NA < 0 || c.NB < 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"comparison %d has negative participant counts", i)
		}
	}

	return nil
}

// ValidateEffects checks the preconditions for the rank simulation:
// at least two effects, unique treatment names, non-negative standard
// errors.
func ValidateEffects(effects []TreatmentEffect) error {
	if len(effects) < 2 {
		return errors.New(errors.ErrCodeInvalidInput,
			"ranking requires at least 2 treatment effects, got %d", len(effects))
	}

	seen := make(map[string]struct{}, len(effects))
	for i, e := range effects {
		if err := errors.ValidateTreatmentName(e.Treatment); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "effect %d", i)
		}
		if _, dup := seen[e.Treatment]; dup {
			return errors.New(errors.ErrCodeInvalidInput,
				"duplicate treatment effect for %q", e.Treatment)
		}
		seen[e.Treatment] = struct{}{}
		if e.StandardError < 0 {
			return errors.New(errors.ErrCodeInvalidInput,
				"treatment %q has negative standard error %g", e.Treatment, e.StandardError)
		}
	}

	return nil
}
