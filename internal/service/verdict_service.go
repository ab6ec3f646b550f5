package service

// Hiring verdict bands derived from the average answer score (0-100).
const (
	VerdictStrongHire = "strong_hire"
	VerdictHire       = "hire"
	VerdictLeanHire   = "lean_hire"
	VerdictNoHire     = "no_hire"
)

// VerdictService maps an average interview score to a hiring recommendation
// band for the summary view.
type VerdictService interface {
	VerdictFor(averageScore float64) string
}

type verdictService struct{}

func NewVerdictService() VerdictService {
	return &verdictService{}
}

var verdictBands = []struct {
	minScore float64
	verdict  string
}{
	{85, VerdictStrongHire},
	{70, VerdictHire},
	{55, VerdictLeanHire},
	{0, VerdictNoHire},
}

func (s *verdictService) VerdictFor(averageScore float64) string {
	for _, band := range verdictBands {
		if averageScore >= band.minScore {
			return band.verdict
		}
	}
	return VerdictNoHire
}
