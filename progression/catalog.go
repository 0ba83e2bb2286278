package progression

import "boss-challenge-bot/model"

// UnknownBoss is returned for positions outside the master list.
const UnknownBoss = "Unknown Boss"

// ExtremeStartBoss is the only fixed entry of extreme mode.
const ExtremeStartBoss = "Corrupted Hunleff"

// masterList is stored hardest first.
var masterList = []string{
	"Sol Heredit",
	"TzKal-Zuk",
	"Yama",
	"Great olm",
	"Phosani's Nightmare",
	"TOA - 300 invocation",
	"Doom of Mokhaiotl (1-8)",
	"Corrupted Hunleff",
	"The Leviathan",
	"The Wisperer",
	"Corporeal Beast",
	"Vardorvis",
	"TOA - 150 invocation",
	"Duke Sucellus",
	"Phantom Muspah",
	"Vorkath",
	"Zulrah",
	"TzTok-Jad",
	"Crystalline Hunleff",
	"K'ril Tsutsaroth",
	"Hueycoatl",
	"General Graardor",
	"Commander Zilyana",
	"Kree'arra",
	"Callisto",
	"Venenatis",
	"Vet'ion",
	"TOB - entry mode",
	"Royal Titans",
	"Zalcano",
	"Kalphite Queen",
	"Perilous Moons",
	"Artio",
	"Sarachnis",
	"Chaos Elemental",
	"Dagannoth Kings",
	"Spindel",
	"Deranged Archeologist",
	"King Black Dragon",
	"Calvar'ion",
	"Amoxliatl",
	"Giant Mole",
	"Scorpia",
	"Crazy Archeologist",
	"Scurrius",
	"Bryophyta",
	"Barrows Brothers",
	"Obor",
}

var easyList = []string{
	"TOA - 150 invocation",
	"Phantom Muspah",
	"Vorkath",
	"Zulrah",
	"TzTok-Jad",
	"Crystalline Hunleff",
	"TOB - entry mode",
	"Royal Titans",
	"Zalcano",
	"Perilous Moons",
	"Artio",
	"Sarachnis",
	"Dagannoth Rex",
	"Spindel",
	"Deranged Archeologist",
	"King Black Dragon",
	"Calvar'ion",
	"Amoxliatl",
	"Giant Mole",
	"Scorpia",
	"Crazy Archeologist",
	"Scurrius",
	"Bryophyta",
	"Barrows Brothers",
	"Obor",
}

var normalList = []string{
	"Phosani's Nightmare",
	"TOA - 300 invocation",
	"Doom of Mokhaiotl (1-7)",
	"Corrupted Hunleff",
	"The Leviathan",
	"The Wisperer",
	"Corporeal Beast",
	"Vardorvis",
	"TOA - 150 invocation",
	"Duke Sucellus",
	"Phantom Muspah",
	"Vorkath",
	"Zulrah",
	"TzTok-Jad",
	"Crystalline Hunleff",
	"K'ril Tsutsaroth",
	"Hueycoatl",
	"General Graardor",
	"Commander Zilyana",
	"Kree'arra",
	"Callisto",
	"Venenatis",
	"Vet'ion",
	"TOB - entry mode",
	"Royal Titans",
	"Zalcano",
	"Perilous Moons",
	"Artio",
	"Sarachnis",
	"Dagannoth Kings",
	"Spindel",
	"Deranged Archeologist",
	"King Black Dragon",
	"Calvar'ion",
	"Amoxliatl",
	"Giant Mole",
	"Scorpia",
	"Crazy Archeologist",
	"Scurrius",
	"Bryophyta",
	"Barrows Brothers",
	"Obor",
}

// difficultyLists holds the per-tier sequences easiest first.
var difficultyLists = map[model.Mode][]string{
	model.ModeEasy:    reversed(easyList),
	model.ModeNormal:  reversed(normalList),
	model.ModeHard:    reversed(masterList),
	model.ModeExtreme: {ExtremeStartBoss},
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, name := range in {
		out[len(in)-1-i] = name
	}
	return out
}

// BossName returns the boss at 1-based position index of the master list,
// easiest first, or UnknownBoss when index is out of range.
func BossName(index int) string {
	if index < 1 || index > len(masterList) {
		return UnknownBoss
	}
	return masterList[len(masterList)-index]
}

// MasterSize is the number of bosses extreme mode draws from.
func MasterSize() int {
	return len(masterList)
}

// DifficultyList returns a copy of the ordered boss sequence for mode.
// Unknown modes yield an empty list.
func DifficultyList(mode model.Mode) []string {
	list := difficultyLists[mode]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// MaxBosses returns the run length of a finite tier, -1 for extreme.
func MaxBosses(mode model.Mode) int {
	if mode == model.ModeExtreme {
		return -1
	}
	return len(difficultyLists[mode])
}

// ModeInfo describes how a tier is presented in Discord.
type ModeInfo struct {
	Emoji       string
	Name        string
	Description string
	Color       int
}

var modeInfos = map[model.Mode]ModeInfo{
	model.ModeEasy:    {Emoji: "🌱", Name: "Easy Mode", Description: "Obor → TOA 150 Invocation", Color: 0x2ecc71},
	model.ModeNormal:  {Emoji: "🛡️", Name: "Normal Mode", Description: "Obor → Phosani's Nightmare", Color: 0x3498db},
	model.ModeHard:    {Emoji: "🔥", Name: "Hard Mode", Description: "Obor → Sol Heredit", Color: 0xe74c3c},
	model.ModeExtreme: {Emoji: "💀", Name: "Extreme Mode", Description: "Corrupted Hunleff → Infinite Random", Color: 0x9b59b6},
}

// GetModeInfo falls back to normal mode for unknown tiers.
func GetModeInfo(mode model.Mode) ModeInfo {
	if info, ok := modeInfos[mode]; ok {
		return info
	}
	return modeInfos[model.ModeNormal]
}
