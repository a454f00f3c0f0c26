package wow

// Paladin
const (
	Judgment                  = 20271
	JudgmentProtection        = 275779
	JudgmentHolyPowerEnergize = 220637
	GraceOfTheJusticarTrait   = 278593
	GraceOfTheJusticar        = 278785
	SanctifiedWrathTalentProt = 171648
	AvengingWrath             = 31884
	HolyAvengerTalent         = 105809

	ResourceHolyPower = 9
	MaxHolyPower      = 5
)

// Rogue
const (
	Envenom = 32645
)

// Priest
const (
	PrayerCircleTalent    = 321377
	PrayerCircleBuff      = 321379
	CircleOfHealingTalent = 204883
	PrayerOfHealing       = 596
)

// Shaman
const (
	FuryOfAirTalent = 197211
	HotHandTalent   = 201900
	HotHandBuff     = 215785
	LavaLash        = 60103
)

// Evoker
const (
	LifebindTalent       = 373270
	LifebindHeal         = 373268
	DreamBreath          = 355936
	DreamBreathEcho      = 376788
	Spiritbloom          = 367226
	SpiritbloomSplit     = 367230
	LivingFlameHeal      = 361509
	Reversion            = 366155
	ReversionEcho        = 367364
	EmeraldBlossom       = 355916
	EmeraldBlossomEcho   = 376832
	VerdantEmbraceHeal   = 361195
	RenewingBlazeHeal    = 374349
	EmeraldCommunion     = 370960
	EmeraldCommunionAlly = 370984
	EmeraldCommunionSelf = 370961
)

// Haste buffs
const (
	Bloodlust        = 2825
	Heroism          = 32182
	TimeWarp         = 80353
	PrimalRage       = 264667
	FuryOfTheAspects = 390386
	PowerInfusion    = 10060
)
