package score

import (
	"strings"
)

// Mods is the osu! legacy modifier bit set.
type Mods uint32

// Standard modifier bits
const (
	NoFail      Mods = 1 << 0
	Easy        Mods = 1 << 1
	TouchDevice Mods = 1 << 2
	Hidden      Mods = 1 << 3
	HardRock    Mods = 1 << 4
	SuddenDeath Mods = 1 << 5
	DoubleTime  Mods = 1 << 6
	Relax       Mods = 1 << 7
	HalfTime    Mods = 1 << 8
	Nightcore   Mods = 1 << 9 // always set together with DoubleTime
	Flashlight  Mods = 1 << 10
	Autoplay    Mods = 1 << 11
	SpunOut     Mods = 1 << 12
	Autopilot   Mods = 1 << 13
	Perfect     Mods = 1 << 14 // always set together with SuddenDeath
	ScoreV2     Mods = 1 << 29
)

// modTable lists acronyms in display order.
var modTable = []struct {
	mod     Mods
	acronym string
}{
	{NoFail, "NF"},
	{Easy, "EZ"},
	{TouchDevice, "TD"},
	{Hidden, "HD"},
	{HardRock, "HR"},
	{SuddenDeath, "SD"},
	{DoubleTime, "DT"},
	{Relax, "RX"},
	{HalfTime, "HT"},
	{Nightcore, "NC"},
	{Flashlight, "FL"},
	{Autoplay, "AT"},
	{SpunOut, "SO"},
	{Autopilot, "AP"},
	{Perfect, "PF"},
	{ScoreV2, "V2"},
}

// FromBits normalises the numeric bitflag representation.
func FromBits(bits uint32) Mods {
	return Mods(bits)
}

// FromList normalises a structured list of acronyms. Unknown acronyms are ignored.
func FromList(acronyms []string) Mods {
	var m Mods
	for _, a := range acronyms {
		m |= lookup(a)
	}
	return m
}

// ParseAcronyms normalises a concatenated acronym string such as "HDDT".
// The string is read in two-letter chunks; a trailing odd letter is ignored.
func ParseAcronyms(s string) Mods {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	var m Mods
	for i := 0; i+2 <= len(s); i += 2 {
		m |= lookup(s[i : i+2])
	}
	return m
}

func lookup(acronym string) Mods {
	acronym = strings.ToUpper(acronym)
	for _, e := range modTable {
		if e.acronym == acronym {
			if e.mod == Nightcore {
				return Nightcore | DoubleTime
			}
			if e.mod == Perfect {
				return Perfect | SuddenDeath
			}
			return e.mod
		}
	}
	return 0
}

// HasModifier reports whether the acronym is active, independent of the
// representation the mods were received in.
func (m Mods) HasModifier(acronym string) bool {
	mod := lookup(acronym)
	return mod != 0 && m&mod == mod
}

// Acronyms lists active modifiers. NC hides DT and PF hides SD.
func (m Mods) Acronyms() []string {
	var out []string
	for _, e := range modTable {
		if m&e.mod == 0 {
			continue
		}
		if e.mod == DoubleTime && m&Nightcore != 0 {
			continue
		}
		if e.mod == SuddenDeath && m&Perfect != 0 {
			continue
		}
		out = append(out, e.acronym)
	}
	return out
}

// String renders mods the way the thumbnail shows them: "+HDDT", or "+NM".
func (m Mods) String() string {
	acronyms := m.Acronyms()
	if len(acronyms) == 0 {
		return "+NM"
	}
	return "+" + strings.Join(acronyms, "")
}

// DifficultyIncrease keeps only the mods that change beatmap star rating
// on lookup (DT, NC, HR).
func (m Mods) DifficultyIncrease() Mods {
	return m & (DoubleTime | Nightcore | HardRock)
}
