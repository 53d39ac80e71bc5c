package evaluation

import "math"

// ExpectedWeight is what the weights of a class evaluations should add up to.
const ExpectedWeight = 100

// WeightCheck reports whether the evaluation weights of a class add up to ExpectedWeight.
// It is advisory: evaluations are accepted whatever their total.
type WeightCheck struct {
	ClassID     int64 `json:"turmaId"`
	TotalWeight int   `json:"totalPeso"`
	Expected    int   `json:"esperado"`
	Valid       bool  `json:"valido"`
	Difference  int   `json:"diferenca"` // Expected - TotalWeight
}

func NewWeightCheck(classID int64, total int) WeightCheck {
	return WeightCheck{
		ClassID:     classID,
		TotalWeight: total,
		Expected:    ExpectedWeight,
		Valid:       total == ExpectedWeight,
		Difference:  ExpectedWeight - total,
	}
}

// WeightedScore is a grade along with the weight of its evaluation.
type WeightedScore struct {
	Score  float64
	Weight int
}

// WeightedAverage returns Σ(score·weight)/Σ(weight), rounded to 2 decimals.
// ok is false when there is nothing to average (no scores or zero total weight).
func WeightedAverage(scores []WeightedScore) (avg float64, ok bool) {
	var sum float64
	var weights int
	for _, s := range scores {
		if s.Weight <= 0 {
			continue
		}
		sum += s.Score * float64(s.Weight)
		weights += s.Weight
	}
	if weights == 0 {
		return 0, false
	}
	return math.Round(sum/float64(weights)*100) / 100, true
}

// Average is the weighted average of an enrolment over its graded evaluations.
type Average struct {
	EnrollmentID int64    `json:"inscricaoId"`
	StudentID    string   `json:"alunoId"`
	Average      *float64 `json:"media"` // null when nothing was graded
	Graded       int      `json:"avaliacoesLancadas"`
	Total        int      `json:"totalAvaliacoes"`
}
