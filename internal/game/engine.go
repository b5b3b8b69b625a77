// internal/game/engine.go
//
// Guess evaluation for a single submitted row.
// Responsibilities:
//   - Classify every guess letter as correct/present/absent.
//   - Never credit a secret letter to more than one guess letter.
//
// Evaluate is pure: no state, no logging, same inputs give the same output.

package game

// Evaluate implements the two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Correct and consume both positions.
//
// Pass 2:
//   - For each unconsumed guess letter, scan the secret left to right for the
//     first unconsumed equal letter. If found, mark Present and consume that
//     secret position; otherwise the letter stays Absent.
//
// Exact matches are fully resolved before any Present is assigned, so a
// repeated guess letter can never steal a secret letter that is matched in
// place elsewhere. The passes must stay separate.
//
// guess is expected to have the same length as secret; guess positions past
// the end of secret are Absent.
func Evaluate(secret, guess string) []Mark {
	n := len(guess)
	res := make([]Mark, n)
	for i := range res {
		res[i] = MarkAbsent
	}
	usedSecret := make([]bool, len(secret))
	usedGuess := make([]bool, n)

	// First pass: exact matches.
	for i := 0; i < n && i < len(secret); i++ {
		if guess[i] == secret[i] {
			res[i] = MarkCorrect
			usedSecret[i] = true
			usedGuess[i] = true
		}
	}

	// Second pass: misplaced letters against what is left of the secret.
	for i := 0; i < n; i++ {
		if usedGuess[i] {
			continue
		}
		for j := 0; j < len(secret); j++ {
			if !usedSecret[j] && secret[j] == guess[i] {
				res[i] = MarkPresent
				usedSecret[j] = true
				break
			}
		}
	}
	return res
}

// AllCorrect returns true if marks is non-empty and every mark is Correct.
func AllCorrect(marks []Mark) bool {
	if len(marks) == 0 {
		return false
	}
	for _, m := range marks {
		if m != MarkCorrect {
			return false
		}
	}
	return true
}
