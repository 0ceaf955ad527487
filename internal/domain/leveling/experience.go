package leveling

import (
	"fmt"

	"github.com/okian/herostats/internal/domain/model"
)

// TotalExperience sums every ability's experience across all heroes.
func TotalExperience(tree model.SkillTree) int64 {
	var total int64
	for _, skills := range tree {
		total += HeroExperience(skills)
	}
	return total
}

// HeroExperience sums every ability's experience for a single hero.
func HeroExperience(skills model.HeroSkills) int64 {
	var total int64
	for _, abilities := range skills {
		total += SkillExperience(abilities)
	}
	return total
}

// SkillExperience sums the experience of the abilities in one skill.
func SkillExperience(abilities model.SkillAbilities) int64 {
	var total int64
	for _, a := range abilities {
		total += a.ExperiencePoints
	}
	return total
}

// ValidateTree reports the first negative experience leaf in tree.
func ValidateTree(tree model.SkillTree) error {
	for hero, skills := range tree {
		for skill, abilities := range skills {
			for ability, a := range abilities {
				if a.ExperiencePoints < 0 {
					return fmt.Errorf("%w: %s/%s/%s=%d",
						ErrInvalidExperienceValue, hero, skill, ability, a.ExperiencePoints)
				}
			}
		}
	}
	return nil
}
