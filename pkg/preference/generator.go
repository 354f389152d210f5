package preference

import (
	"github.com/papercomputeco/pptree/pkg/conversation"
	"github.com/papercomputeco/pptree/pkg/ppt"
)

// ExpandTurn builds every (chosen, rejected) pair for turns[i]. The prompt is
// the projection of turns[:i]. The chosen set is the turn's chosens followed
// by its main text, and pairs are ordered chosen-major, rejected-minor.
//
// A main text equal to one of the chosens still yields its own pairs.
func ExpandTurn(turns ppt.PT, i int) ([]Sample, error) {
	if i < 0 || i >= len(turns) {
		return nil, &ValidationError{Index: i, Err: ErrIndexOutOfRange}
	}

	turn := turns[i]
	if len(turn.Rejecteds) == 0 {
		return nil, &ValidationError{Index: i, Err: ErrNoRejected}
	}

	prompt := conversation.Project(turns[:i])

	chosenContents := make([]string, 0, len(turn.Chosens)+1)
	chosenContents = append(chosenContents, turn.Chosens...)
	chosenContents = append(chosenContents, turn.Main)

	samples := make([]Sample, 0, len(chosenContents)*len(turn.Rejecteds))
	for _, chosen := range chosenContents {
		for _, rejected := range turn.Rejecteds {
			samples = append(samples, Sample{
				Prompt:   clonePrompt(prompt),
				Chosen:   []conversation.Message{conversation.NewMessage(turn.Role, chosen)},
				Rejected: []conversation.Message{conversation.NewMessage(turn.Role, rejected)},
			})
		}
	}

	return samples, nil
}

// ExpandLast expands the final turn of turns.
func ExpandLast(turns ppt.PT) ([]Sample, error) {
	return ExpandTurn(turns, len(turns)-1)
}

// GenerateAll expands every turn that carries rejected content, in turn
// order. Turns without rejected content contribute nothing.
func GenerateAll(turns ppt.PT) []Sample {
	samples := []Sample{}
	for _, i := range turns.Annotated() {
		expanded, err := ExpandTurn(turns, i)
		if err != nil {
			// Annotated only returns indexes with rejected content.
			panic("expanding annotated turn: " + err.Error())
		}
		samples = append(samples, expanded...)
	}
	return samples
}

func clonePrompt(prompt []conversation.Message) []conversation.Message {
	return append(make([]conversation.Message, 0, len(prompt)), prompt...)
}
