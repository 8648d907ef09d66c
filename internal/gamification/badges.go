package gamification

import (
	"nicolaspaye/gamification/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// badgeCheck pairs a catalog entry with its unlock predicate, evaluated
// against user state after every award.
type badgeCheck struct {
	Def      models.BadgeDefinition
	Unlocked func(u *models.User) bool
}

var badgeCatalog = []badgeCheck{
	{
		Def: models.BadgeDefinition{
			Slug: "premiers-pas", Name: "Premiers pas",
			Description: "Gagner ses premiers points d'expérience",
			Category:    models.BadgeContribution,
		},
		Unlocked: func(u *models.User) bool { return u.TotalXP > 0 },
	},
	{
		Def: models.BadgeDefinition{
			Slug: "semaine-de-vigilance", Name: "Semaine de vigilance",
			Description: "Sept jours d'activité consécutifs",
			Category:    models.BadgeStreak,
		},
		Unlocked: func(u *models.User) bool { return u.CurrentStreak >= 7 },
	},
	{
		Def: models.BadgeDefinition{
			Slug: "mois-sans-faille", Name: "Mois sans faille",
			Description: "Trente jours d'activité consécutifs",
			Category:    models.BadgeStreak,
		},
		Unlocked: func(u *models.User) bool { return u.CurrentStreak >= 30 },
	},
	{
		Def: models.BadgeDefinition{
			Slug: "millier", Name: "Le millier",
			Description: "Atteindre 1000 points d'expérience",
			Category:    models.BadgeQuality,
		},
		Unlocked: func(u *models.User) bool { return u.TotalXP >= 1000 },
	},
	{
		Def: models.BadgeDefinition{
			Slug: "gardien-des-comptes", Name: "Gardien des comptes",
			Description: "Atteindre le niveau 10",
			Category:    models.BadgeSpecial,
		},
		Unlocked: func(u *models.User) bool { return LevelFromXP(u.TotalXP).Level >= 10 },
	},
}

// BadgeCatalog exposes the static definitions for the profile page.
func BadgeCatalog() []models.BadgeDefinition {
	defs := make([]models.BadgeDefinition, 0, len(badgeCatalog))
	for _, entry := range badgeCatalog {
		defs = append(defs, entry.Def)
	}
	return defs
}

// awardBadges persists every newly satisfied badge for the user and returns
// the slugs granted by this call. The (user, slug) unique index makes repeat
// grants no-ops.
func awardBadges(tx *gorm.DB, user *models.User) ([]string, error) {
	earned := map[string]bool{}
	existing := []models.UserBadge{}
	if err := tx.Where("user_id = ?", user.ID).Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, badge := range existing {
		earned[badge.BadgeSlug] = true
	}

	var granted []string
	for _, entry := range badgeCatalog {
		if earned[entry.Def.Slug] || !entry.Unlocked(user) {
			continue
		}
		// OnConflict keeps a concurrent grant of the same badge from
		// aborting the surrounding award transaction.
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.UserBadge{UserID: user.ID, BadgeSlug: entry.Def.Slug})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected > 0 {
			granted = append(granted, entry.Def.Slug)
		}
	}
	return granted, nil
}
