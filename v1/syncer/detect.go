package syncer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/erpvec/erpvec/v1/odoo"
	"github.com/erpvec/erpvec/v1/schema"
)

// DetectFKFields scores which fields of a model behave like foreign
// keys. Declared relational fields score 1.0; for the rest the score
// combines naming convention and sampled data. Only candidates at or
// above minConfidence are returned, ordered by confidence.
//
// The threshold is deliberately caller-supplied: what counts as "likely
// enough" depends on whether the caller is reporting or auto-writing
// mappings.
func (s *Syncer) DetectFKFields(ctx context.Context, modelName string, minConfidence float64) ([]FKCandidate, error) {
	model, err := s.catalog.Model(modelName)
	if err != nil {
		return nil, err
	}

	var out []FKCandidate
	for _, f := range model.Fields {
		candidate, ok, err := s.scoreField(ctx, model, f)
		if err != nil {
			return nil, err
		}
		if ok && candidate.Confidence >= minConfidence {
			out = append(out, candidate)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Field < out[j].Field
	})
	return out, nil
}

func (s *Syncer) scoreField(ctx context.Context, model *schema.ModelSchema, f schema.FieldDescriptor) (FKCandidate, bool, error) {
	if f.Type.Relational() {
		target, _ := s.catalog.ModelByID(f.FKTargetModelID)
		return FKCandidate{
			Field:          f.Name,
			TargetModel:    target,
			Confidence:     1.0,
			Classification: "declared",
			Reasons:        []string{fmt.Sprintf("declared %s relation", f.Type)},
		}, true, nil
	}

	// Undeclared candidates: integer columns following the id naming
	// convention. Anything else is not worth sampling.
	if f.Type != schema.TypeInteger || !strings.HasSuffix(f.Name, "_id") {
		return FKCandidate{}, false, nil
	}

	candidate := FKCandidate{
		Field:          f.Name,
		Confidence:     0.4,
		Classification: "heuristic",
		Reasons:        []string{"integer field named *_id"},
	}

	// The name itself may resolve to a registered model:
	// "partner_id" -> "res.partner" won't, but "account_id" ->
	// "account.account" style dotted guesses sometimes do.
	guess := strings.ReplaceAll(strings.TrimSuffix(f.Name, "_id"), "_", ".")
	if _, err := s.catalog.Model(guess); err == nil {
		candidate.TargetModel = guess
		candidate.Confidence += 0.2
		candidate.Reasons = append(candidate.Reasons, fmt.Sprintf("name resolves to model %s", guess))
	}

	ratio, sampled, err := s.sampleIDRatio(ctx, model.ModelName, f.Name)
	if err != nil {
		return FKCandidate{}, false, err
	}
	if sampled == 0 {
		candidate.Reasons = append(candidate.Reasons, "no populated samples")
		return candidate, true, nil
	}
	if ratio >= 0.9 {
		candidate.Confidence += 0.3
		candidate.Reasons = append(candidate.Reasons,
			fmt.Sprintf("%.0f%% of %d sampled values are positive integers", ratio*100, sampled))
	}
	if candidate.Confidence > 1.0 {
		candidate.Confidence = 1.0
	}
	return candidate, true, nil
}

// sampleIDRatio reads up to SampleSize records and reports what fraction
// of the populated values look like record ids (positive integers).
func (s *Syncer) sampleIDRatio(ctx context.Context, modelName, field string) (float64, int, error) {
	records, err := s.source.SearchRead(ctx, modelName, nil, odoo.SearchOptions{
		Fields: []string{field},
		Limit:  s.cfg.SampleSize,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("sample %s.%s: %w", modelName, field, err)
	}

	populated, positive := 0, 0
	for _, rec := range records {
		value, ok := rec[field]
		if !ok || value == nil || value == false {
			continue
		}
		populated++
		if id, ok := asInt64(value); ok && id > 0 {
			positive++
		}
	}
	if populated == 0 {
		return 0, 0, nil
	}
	return float64(positive) / float64(populated), populated, nil
}
