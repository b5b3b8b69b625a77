package game

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	c = MarkCorrect
	p = MarkPresent
	a = MarkAbsent
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		guess  string
		want   []Mark
	}{
		{"exact", "WORDS", "WORDS", []Mark{c, c, c, c, c}},
		{"rotation", "WORDS", "SWORD", []Mark{p, p, p, p, p}},
		{"disjoint", "WORDS", "PLANK", []Mark{a, a, a, a, a}},
		{"mixed", "WORDS", "WORLD", []Mark{c, c, c, a, p}},
		// Only one O in the secret, and it is matched in place.
		{"duplicate guess letter, one exact", "WORDS", "OOOOO", []Mark{a, c, a, a, a}},
		{"second copy of guess letter absent", "WORDS", "BOOZE", []Mark{a, c, a, a, a}},
		{"leftmost present wins", "ABCDE", "XAAXX", []Mark{a, p, a, a, a}},
		// Both secret Bs are matched in place, so the leading B gets nothing.
		{"exact beats earlier present", "ABBEY", "BBBXX", []Mark{a, c, c, a, a}},
		// E@0 takes E@1, L@1 takes L@0, L@2 takes L@4, E@4 finds no E left.
		{"secret duplicates", "LEVEL", "ELLEE", []Mark{p, p, p, c, a}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.secret, tt.guess))
		})
	}
}

func TestEvaluateSelfIsAllCorrect(t *testing.T) {
	for _, w := range []string{"WORDS", "AAAAA", "LEVEL", "Q", "ABCDEFGH"} {
		marks := Evaluate(w, w)
		assert.True(t, AllCorrect(marks), w)
	}
}

func TestEvaluateShortGuessAndMismatchedLength(t *testing.T) {
	assert.Equal(t, []Mark{p, a}, Evaluate("WORDS", "SX"))
	assert.Equal(t, []Mark{c, c, a}, Evaluate("AB", "ABA"))
	assert.Empty(t, Evaluate("WORDS", ""))
}

func TestEvaluateNeverOvercounts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const alphabet = "ABCD" // small alphabet to force duplicates
	randWord := func(n int) string {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	for i := 0; i < 5000; i++ {
		secret, guess := randWord(5), randWord(5)
		marks := Evaluate(secret, guess)
		require.Len(t, marks, 5)

		credited := map[byte]int{}
		for j, m := range marks {
			switch m {
			case MarkCorrect:
				require.Equal(t, secret[j], guess[j], "%s/%s", secret, guess)
				credited[guess[j]]++
			case MarkPresent:
				require.NotEqual(t, secret[j], guess[j], "%s/%s", secret, guess)
				credited[guess[j]]++
			}
		}
		for letter, n := range credited {
			require.LessOrEqual(t, n, strings.Count(secret, string(letter)), "%s/%s", secret, guess)
		}
		// Every guess letter left absent must have no unclaimed copy in the secret.
		for j, m := range marks {
			if m != MarkAbsent {
				continue
			}
			require.Equal(t, strings.Count(secret, string(guess[j])), credited[guess[j]], "%s/%s", secret, guess)
		}
		require.Equal(t, marks, Evaluate(secret, guess), "deterministic")
	}
}

func TestAllCorrect(t *testing.T) {
	assert.False(t, AllCorrect(nil))
	assert.False(t, AllCorrect([]Mark{c, p}))
	assert.True(t, AllCorrect([]Mark{c, c}))
}
