package score

import "time"

// Summary is the decoded result of one replay. It is read-only once built.
type Summary struct {
	Mode        byte
	Version     int32
	BeatmapHash string
	Username    string
	ReplayHash  string

	Count300  int
	Count100  int
	Count50   int
	CountGeki int
	CountKatu int
	CountMiss int

	Score     int64
	MaxCombo  int
	Perfect   bool
	Mods      Mods
	Timestamp time.Time
}

// TotalHits counts every judged object in osu!standard.
func (s *Summary) TotalHits() int {
	return s.Count300 + s.Count100 + s.Count50 + s.CountMiss
}

// Accuracy is the standard weighted accuracy in the range 0..1.
func (s *Summary) Accuracy() float64 {
	total := s.TotalHits()
	if total == 0 {
		return 0
	}
	weighted := float64(s.Count300) + float64(s.Count100)/3 + float64(s.Count50)/6
	return weighted / float64(total)
}

// HasModifier reports whether the replay was played with the given acronym.
func (s *Summary) HasModifier(acronym string) bool {
	return s.Mods.HasModifier(acronym)
}

// Silver reports whether the top grades get their silver variant.
func (s *Summary) Silver() bool {
	return s.HasModifier("HD") || s.HasModifier("FL")
}

// Rank classifies the replay.
func (s *Summary) Rank() Grade {
	return Classify(s.Count300, s.Count50, s.CountMiss, s.TotalHits(), s.Silver())
}
