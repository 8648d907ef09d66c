package gamification

// LevelInfo is the derived level state for a cumulative XP total. Levels are
// never stored; they are always recomputed from TotalXP.
type LevelInfo struct {
	Level           int    `json:"level"`
	Title           string `json:"title"`
	XPInLevel       int    `json:"xpInLevel"`
	XPForLevel      int    `json:"xpForLevel"`
	NextLevelXP     *int   `json:"nextLevelXp"`
	ProgressPercent int    `json:"progressPercent"`
}

type levelStep struct {
	MinXP int
	Level int
	Title string
}

// levelTable is strictly increasing in MinXP and starts at level 1 with 0 XP.
// Loaded once at init, immutable afterwards.
var levelTable = []levelStep{
	{0, 1, "Citoyen curieux"},
	{100, 2, "Observateur"},
	{250, 3, "Contributeur"},
	{500, 4, "Contributeur confirmé"},
	{900, 5, "Enquêteur"},
	{1400, 6, "Analyste"},
	{2000, 7, "Vérificateur"},
	{2800, 8, "Vérificateur aguerri"},
	{3800, 9, "Rapporteur"},
	{5000, 10, "Gardien des comptes"},
	{6500, 11, "Inspecteur"},
	{8200, 12, "Inspecteur général"},
	{10200, 13, "Expert citoyen"},
	{12500, 14, "Sentinelle"},
	{15200, 15, "Sentinelle d'élite"},
	{18200, 16, "Auditeur"},
	{21600, 17, "Auditeur en chef"},
	{25400, 18, "Magistrat citoyen"},
	{29600, 19, "Conscience publique"},
	{34200, 20, "Légende de la transparence"},
}

// LevelFromXP returns the level entry with the greatest threshold not
// exceeding totalXP. Negative input is treated as 0. Pure and safe to call
// concurrently.
func LevelFromXP(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	matched := 0
	for i, step := range levelTable {
		if step.MinXP > totalXP {
			break
		}
		matched = i
	}
	step := levelTable[matched]

	info := LevelInfo{
		Level:     step.Level,
		Title:     step.Title,
		XPInLevel: totalXP - step.MinXP,
	}

	if matched == len(levelTable)-1 {
		// Top tier: nothing left to earn.
		info.XPForLevel = 0
		info.ProgressPercent = 100
		return info
	}

	next := levelTable[matched+1]
	info.XPForLevel = next.MinXP - step.MinXP
	info.NextLevelXP = &next.MinXP
	info.ProgressPercent = info.XPInLevel * 100 / info.XPForLevel
	return info
}
