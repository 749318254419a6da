/*
skills.go - Skill-coverage set arithmetic

PURPOSE:
  Computes which required skills are covered or missing given a pool of
  available skills. At day/week granularity the available pool is the union
  of skills held by every employee with at least one shift that date:
  coverage is a property of the whole day's roster, not of any single shift.

SEMANTICS:
  missing = required − available     (set difference)
  covered = required ∩ available
  A day is fully covered iff missing is empty. An empty required set is
  trivially covered.

DETERMINISM:
  Results preserve first-appearance order of the required set so violation
  messages are stable across runs.
*/
package schedule

// SkillCoverage is the result of evaluating a required-skill set against an
// available pool.
type SkillCoverage struct {
	Required  []SkillID
	Available []SkillID
	Covered   []SkillID
	Missing   []SkillID
}

// FullyCovered reports whether every required skill is available.
func (c SkillCoverage) FullyCovered() bool {
	return len(c.Missing) == 0
}

// EvaluateCoverage computes covered and missing skills. Duplicates in either
// input are ignored; order of the required input is preserved in the output.
func EvaluateCoverage(required, available []SkillID) SkillCoverage {
	availableSet := make(map[SkillID]struct{}, len(available))
	for _, id := range available {
		availableSet[id] = struct{}{}
	}

	cov := SkillCoverage{
		Required:  dedupeSkills(required),
		Available: dedupeSkills(available),
	}
	for _, id := range cov.Required {
		if _, ok := availableSet[id]; ok {
			cov.Covered = append(cov.Covered, id)
		} else {
			cov.Missing = append(cov.Missing, id)
		}
	}
	return cov
}

// dedupeSkills removes duplicates preserving first-appearance order.
func dedupeSkills(ids []SkillID) []SkillID {
	seen := make(map[SkillID]struct{}, len(ids))
	var out []SkillID
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
