package wow

var (
	SpecOrder = map[string]int{
		"Paladin-Holy":        11,
		"Paladin-Protection":  12,
		"Paladin-Retribution": 13,

		"Priest-Discipline": 21,
		"Priest-Holy":       22,
		"Priest-Shadow":     23,

		"Rogue-Assassination": 31,
		"Rogue-Outlaw":        32,
		"Rogue-Subtlety":      33,

		"Shaman-Elemental":   41,
		"Shaman-Enhancement": 42,
		"Shaman-Restoration": 43,

		"Evoker-Devastation":  51,
		"Evoker-Preservation": 52,
		"Evoker-Augmentation": 53,
	}
)
