package score

// Grade is a letter rank.
type Grade string

// Grades from best to worst.
const (
	GradeXH Grade = "XH"
	GradeX  Grade = "X"
	GradeSH Grade = "SH"
	GradeS  Grade = "S"
	GradeA  Grade = "A"
	GradeB  Grade = "B"
	GradeC  Grade = "C"
	GradeD  Grade = "D"
	GradeF  Grade = "F"
)

// Asset returns the badge name for the grade; failed plays reuse the D badge.
func (g Grade) Asset() string {
	if g == GradeF {
		return string(GradeD)
	}
	return string(g)
}

// Classify maps hit statistics to a grade. silver is true when a
// visibility-reducing modifier (HD or FL) is active.
// Ratios are computed in single precision, matching the game client.
func Classify(count300, count50, countMiss, totalHits int, silver bool) Grade {
	if totalHits <= 0 {
		return GradeD
	}

	// rounded through float32, compared as float64
	ratio300 := float64(float32(float64(count300) / float64(totalHits)))
	ratio50 := float64(float32(float64(count50) / float64(totalHits)))

	switch {
	case ratio300 == 1:
		if silver {
			return GradeXH
		}
		return GradeX
	case ratio300 > 0.9 && ratio50 <= 0.01 && countMiss == 0:
		if silver {
			return GradeSH
		}
		return GradeS
	case (ratio300 > 0.8 && countMiss == 0) || ratio300 > 0.9:
		return GradeA
	case (ratio300 > 0.7 && countMiss == 0) || ratio300 > 0.8:
		return GradeB
	case ratio300 > 0.6:
		return GradeC
	default:
		return GradeD
	}
}
