package scoring

import (
	"sort"

	"caregiver-aptitude-service/internal/domain"
)

// MaxDisplayRank is the lowest display rank shown among runners-up.
const MaxDisplayRank = 4

// ComputeScores tallies the answers. Every category starts at zero and gains one
// point per rule it is a target of. The result does not depend on answer order.
//
// Completeness of answers is the caller's responsibility.
func (t *Table) ComputeScores(answers domain.AnswerSet) domain.ScoreBoard {
	board := make(domain.ScoreBoard, len(t.categories))
	for _, c := range t.categories {
		board[c.ID] = 0
	}
	for question, answer := range answers {
		for _, target := range t.lookup(question, answer) {
			board[target]++
		}
	}
	return board
}

// Rank orders the board by score descending. Equal scores keep category ID order.
func (t *Table) Rank(board domain.ScoreBoard) domain.RankedResult {
	ranked := make(domain.RankedResult, 0, len(t.categories))
	for _, c := range t.categories {
		ranked = append(ranked, domain.RankEntry{Score: board[c.ID], Category: c})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// SelectPrimary returns the top score and every category that reached it.
func SelectPrimary(ranked domain.RankedResult) (int, []domain.Category) {
	if len(ranked) == 0 {
		return 0, nil
	}
	top := ranked[0].Score
	var primary []domain.Category
	for _, entry := range ranked {
		if entry.Score != top {
			break
		}
		primary = append(primary, entry.Category)
	}
	return top, primary
}

// SelectRunnersUp assigns dense display ranks, starting at 2, to the categories
// scoring below topScore. A tie-bucket always shares one rank and buckets past
// maxDisplayRank are dropped whole. An empty result means every category tied.
func SelectRunnersUp(ranked domain.RankedResult, topScore, maxDisplayRank int) []domain.RunnerUp {
	runnersUp := []domain.RunnerUp{}
	rank := 1
	prev := topScore
	for _, entry := range ranked {
		if entry.Score >= topScore {
			continue
		}
		if entry.Score != prev {
			rank++
			prev = entry.Score
		}
		if rank > maxDisplayRank {
			break
		}
		runnersUp = append(runnersUp, domain.RunnerUp{
			Rank:     rank,
			Score:    entry.Score,
			Category: entry.Category,
		})
	}
	return runnersUp
}

// Result is the full engine output for one answer set.
type Result struct {
	Board     domain.ScoreBoard
	Ranking   domain.RankedResult
	TopScore  int
	Primary   []domain.Category
	RunnersUp []domain.RunnerUp
}

// AllTied reports whether every category shares the top score.
func (r Result) AllTied() bool {
	return len(r.RunnersUp) == 0 && len(r.Primary) == len(r.Ranking)
}

// Evaluate runs the whole pipeline: scores, ranking, primary tier and runners-up.
func (t *Table) Evaluate(answers domain.AnswerSet) Result {
	board := t.ComputeScores(answers)
	ranked := t.Rank(board)
	top, primary := SelectPrimary(ranked)
	return Result{
		Board:     board,
		Ranking:   ranked,
		TopScore:  top,
		Primary:   primary,
		RunnersUp: SelectRunnersUp(ranked, top, MaxDisplayRank),
	}
}
