package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caregiver-aptitude-service/internal/domain"
)

func uniform(code domain.AnswerCode) domain.AnswerSet {
	answers := make(domain.AnswerSet, len(Questions))
	for _, q := range Questions {
		answers[q.ID] = code
	}
	return answers
}

func categoryIDs(categories []domain.Category) []domain.CategoryID {
	ids := make([]domain.CategoryID, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func runnerUpRanks(runnersUp []domain.RunnerUp) map[domain.CategoryID]int {
	ranks := make(map[domain.CategoryID]int, len(runnersUp))
	for _, r := range runnersUp {
		ranks[r.Category.ID] = r.Rank
	}
	return ranks
}

// rankedFromScores ranks scores given in category order.
func rankedFromScores(t *testing.T, scores ...int) domain.RankedResult {
	t.Helper()
	require.Len(t, scores, len(Categories))
	board := make(domain.ScoreBoard, len(scores))
	for i, s := range scores {
		board[Categories[i].ID] = s
	}
	return Default().Rank(board)
}

func TestComputeScoresAllA(t *testing.T) {
	board := Default().ComputeScores(uniform(domain.AnswerA))

	require.Len(t, board, len(Categories))
	assert.Equal(t, 4, board[Manager])
	assert.Equal(t, 3, board[HealthFacility])
	assert.Equal(t, 3, board[FacilityCareManager])
	assert.Equal(t, 1, board[DayService])
	assert.Equal(t, 1, board[ServicedHousing])
}

func TestComputeScoresAllB(t *testing.T) {
	table := Default()
	board := table.ComputeScores(uniform(domain.AnswerB))

	// Q9/B is the only B rule awarding the manager category.
	assert.Equal(t, 1, board[Manager])
	assert.Equal(t, 7, board[SpecialNursingHome])

	ranked := table.Rank(board)
	last := ranked[len(ranked)-1]
	assert.Equal(t, Manager, last.Category.ID)
	assert.Equal(t, 1, last.Score)
}

func TestComputeScoresConservation(t *testing.T) {
	table := Default()
	answers := domain.AnswerSet{
		"Q1": domain.AnswerA, "Q2": domain.AnswerB, "Q3": domain.AnswerA, "Q4": domain.AnswerB,
		"Q5": domain.AnswerA, "Q6": domain.AnswerB, "Q7": domain.AnswerA, "Q8": domain.AnswerB,
		"Q9": domain.AnswerA, "Q10": domain.AnswerB,
	}

	want := 0
	for q, a := range answers {
		want += len(Rules[domain.RuleKey{Question: q, Answer: a}])
	}

	got := 0
	for _, score := range table.ComputeScores(answers) {
		got += score
	}
	assert.Equal(t, want, got)
}

func TestComputeScoresIsDeterministic(t *testing.T) {
	table := Default()
	answers := uniform(domain.AnswerA)
	answers["Q4"] = domain.AnswerB
	answers["Q7"] = domain.AnswerB

	first := table.Evaluate(answers)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, table.Evaluate(answers))
	}
}

func TestComputeScoresSingleAnswerChange(t *testing.T) {
	table := Default()
	for _, q := range Questions {
		before := uniform(domain.AnswerA)
		after := uniform(domain.AnswerA)
		after[q.ID] = domain.AnswerB

		affected := map[domain.CategoryID]bool{}
		for _, id := range Rules[domain.RuleKey{Question: q.ID, Answer: domain.AnswerA}] {
			affected[id] = !affected[id]
		}
		for _, id := range Rules[domain.RuleKey{Question: q.ID, Answer: domain.AnswerB}] {
			affected[id] = !affected[id]
		}

		b1 := table.ComputeScores(before)
		b2 := table.ComputeScores(after)
		for _, c := range Categories {
			if !affected[c.ID] {
				assert.Equal(t, b1[c.ID], b2[c.ID], "question %s category %d", q.ID, c.ID)
			}
		}
	}
}

func TestComputeScoresSkipsUnknownAnswers(t *testing.T) {
	table := Default()
	answers := uniform(domain.AnswerA)
	answers["Q1"] = "C"
	answers["Q99"] = domain.AnswerA

	board := table.ComputeScores(answers)
	assert.Equal(t, 3, board[Manager])
	assert.Len(t, board, len(Categories))
}

func TestRankIsStableOnTies(t *testing.T) {
	ranked := Default().Rank(Default().ComputeScores(uniform(domain.AnswerA)))

	got := make([]domain.CategoryID, len(ranked))
	for i, e := range ranked {
		got[i] = e.Category.ID
	}
	assert.Equal(t, []domain.CategoryID{
		Manager,
		HealthFacility, FacilityCareManager,
		SpecialNursingHome, PaidNursingHome, HomeHelp, GroupHome, HomeCare,
		DayService, ServicedHousing,
	}, got)
}

func TestSelectPrimary(t *testing.T) {
	ranked := rankedFromScores(t, 5, 7, 7, 1, 0, 0, 2, 3, 7, 4)
	top, primary := SelectPrimary(ranked)

	assert.Equal(t, 7, top)
	assert.Equal(t, []domain.CategoryID{SpecialNursingHome, PaidNursingHome, FacilityCareManager}, categoryIDs(primary))
}

func TestSelectRunnersUpSingleBucket(t *testing.T) {
	ranked := rankedFromScores(t, 6, 3, 3, 3, 0, 0, 0, 0, 0, 0)
	top, _ := SelectPrimary(ranked)
	runnersUp := SelectRunnersUp(ranked, top, MaxDisplayRank)

	require.Len(t, runnersUp, 9)
	ranks := runnerUpRanks(runnersUp)
	assert.Equal(t, 2, ranks[SpecialNursingHome])
	assert.Equal(t, 2, ranks[PaidNursingHome])
	assert.Equal(t, 2, ranks[HealthFacility])
	assert.Equal(t, 3, ranks[HomeHelp])
	assert.Equal(t, 3, ranks[ServicedHousing])
}

func TestSelectRunnersUpStopsAtCeiling(t *testing.T) {
	ranked := rankedFromScores(t, 9, 8, 8, 7, 6, 6, 5, 4, 4, 3)
	top, _ := SelectPrimary(ranked)
	runnersUp := SelectRunnersUp(ranked, top, MaxDisplayRank)

	ranks := runnerUpRanks(runnersUp)
	assert.Equal(t, map[domain.CategoryID]int{
		SpecialNursingHome: 2,
		PaidNursingHome:    2,
		HealthFacility:     3,
		HomeHelp:           4,
		DayService:         4,
	}, ranks)
}

func TestSelectRunnersUpNeverSplitsBuckets(t *testing.T) {
	cases := [][]int{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{4, 4, 4, 3, 3, 2, 2, 1, 1, 0},
		{0, 1, 0, 1, 0, 1, 0, 1, 0, 1},
		{5, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	}
	for _, scores := range cases {
		ranked := rankedFromScores(t, scores...)
		top, _ := SelectPrimary(ranked)
		runnersUp := SelectRunnersUp(ranked, top, MaxDisplayRank)

		byScore := map[int]int{}
		for _, r := range runnersUp {
			assert.LessOrEqual(t, r.Rank, MaxDisplayRank)
			assert.Less(t, r.Score, top)
			if rank, seen := byScore[r.Score]; seen {
				assert.Equal(t, rank, r.Rank)
			}
			byScore[r.Score] = r.Rank
		}
		for _, e := range ranked {
			if rank, shown := byScore[e.Score]; shown {
				assert.Contains(t, runnerUpRanks(runnersUp), e.Category.ID, "bucket %d at rank %d truncated", e.Score, rank)
			}
		}
	}
}

func TestSelectRunnersUpAllTied(t *testing.T) {
	ranked := rankedFromScores(t, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2)
	top, primary := SelectPrimary(ranked)
	runnersUp := SelectRunnersUp(ranked, top, MaxDisplayRank)

	assert.Len(t, primary, len(Categories))
	assert.Empty(t, runnersUp)
}

func TestEvaluate(t *testing.T) {
	result := Default().Evaluate(uniform(domain.AnswerA))

	assert.Equal(t, 4, result.TopScore)
	assert.Equal(t, []domain.CategoryID{Manager}, categoryIDs(result.Primary))
	assert.False(t, result.AllTied())
	assert.Equal(t, map[domain.CategoryID]int{
		HealthFacility: 2, FacilityCareManager: 2,
		SpecialNursingHome: 3, PaidNursingHome: 3, HomeHelp: 3, GroupHome: 3, HomeCare: 3,
		DayService: 4, ServicedHousing: 4,
	}, runnerUpRanks(result.RunnersUp))
}
