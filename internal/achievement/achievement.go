// Package achievement decides which achievements the current progress has earned.
package achievement

import (
	"github.com/at-ishikawa/pmacademy/internal/catalog"
	"github.com/at-ishikawa/pmacademy/internal/progress"
)

const (
	FirstStep    = "first-step"
	OnARoll      = "on-a-roll"
	QuizMaster   = "quiz-master"
	ModuleMaster = "module-master"
	FastLearner  = "fast-learner"
	Dedicated    = "dedicated"
	PMPro        = "pm-pro"
)

// Rule reports whether p satisfies an achievement.
type Rule func(p progress.UserProgress, modules []catalog.Module) bool

// Rules maps achievement IDs to the rule that earns them. Achievements
// without a rule, such as quiz-master and fast-learner, are only unlocked
// explicitly.
var Rules = map[string]Rule{
	FirstStep: func(p progress.UserProgress, _ []catalog.Module) bool {
		return len(p.LessonsCompleted) >= 1
	},
	OnARoll: func(p progress.UserProgress, _ []catalog.Module) bool {
		return p.CurrentStreak >= 7
	},
	Dedicated: func(p progress.UserProgress, _ []catalog.Module) bool {
		return p.CurrentStreak >= 30
	},
	ModuleMaster: func(p progress.UserProgress, _ []catalog.Module) bool {
		return len(p.ModulesCompleted) >= 1
	},
	PMPro: func(p progress.UserProgress, modules []catalog.Module) bool {
		if len(modules) == 0 {
			return false
		}
		for _, m := range modules {
			if !p.HasCompletedModule(m.ID) {
				return false
			}
		}
		return true
	},
}

// Earned returns the IDs of the catalog achievements that p satisfies but
// has not unlocked yet, in catalog order.
func Earned(p progress.UserProgress, c *catalog.Catalog) []string {
	var earned []string
	for _, a := range c.Achievements() {
		if p.HasAchievement(a.ID) {
			continue
		}
		rule, ok := Rules[a.ID]
		if !ok {
			continue
		}
		if rule(p, c.Modules()) {
			earned = append(earned, a.ID)
		}
	}
	return earned
}
