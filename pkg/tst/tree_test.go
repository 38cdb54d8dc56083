package tst

import (
	"slices"
	"sort"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bastiangx/wordtree/pkg/wordfreq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []wordfreq.Pair{
	{Word: "cut", Frequency: 10},
	{Word: "cuts", Frequency: 5},
	{Word: "cub", Frequency: 8},
	{Word: "cute", Frequency: 20},
}

func build(t *testing.T, pairs []wordfreq.Pair) *Tree {
	t.Helper()
	tr := New()
	require.NoError(t, tr.Build(pairs))
	require.NoError(t, tr.Check())
	return tr
}

func search(t *testing.T, tr *Tree, word string) int {
	t.Helper()
	freq, err := tr.Search(word)
	require.NoError(t, err)
	return freq
}

func TestSearchAfterBuild(t *testing.T) {
	pairs := []wordfreq.Pair{
		{Word: "apple", Frequency: 100},
		{Word: "ant", Frequency: 7},
		{Word: "apologetic", Frequency: 3},
		{Word: "fathom", Frequency: 12},
		{Word: "a", Frequency: 900},
		{Word: "zebra", Frequency: 1},
		{Word: "caf\u00e9", Frequency: 4},
		{Word: "cafe", Frequency: 6},
	}
	tr := build(t, pairs)

	for _, p := range pairs {
		assert.Equal(t, p.Frequency, search(t, tr, p.Word), p.Word)
	}
	assert.Equal(t, len(pairs), tr.Len())

	for _, miss := range []string{"ap", "apples", "b", "caf", "fathoms", "zebr"} {
		assert.Zero(t, search(t, tr, miss), miss)
	}
}

func TestBuildFirstInsertionWins(t *testing.T) {
	tr := New()
	err := tr.Build([]wordfreq.Pair{
		{Word: "cut", Frequency: 10},
		{Word: "cut", Frequency: 99},
		{Word: "", Frequency: 3},
		{Word: "cub", Frequency: 0},
		{Word: "cute", Frequency: 20},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, wordfreq.ErrEmptyWord)
	assert.ErrorIs(t, err, wordfreq.ErrInvalidFrequency)
	assert.Equal(t, 10, search(t, tr, "cut"))
	assert.Equal(t, 20, search(t, tr, "cute"))
	assert.Zero(t, search(t, tr, "cub"))
	assert.Equal(t, 2, tr.Len())
	require.NoError(t, tr.Check())
}

func TestBuildReplacesContents(t *testing.T) {
	tr := build(t, sample)
	require.NoError(t, tr.Build([]wordfreq.Pair{{Word: "dog", Frequency: 2}}))

	assert.Zero(t, search(t, tr, "cut"))
	assert.Equal(t, 2, search(t, tr, "dog"))
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 3, tr.Nodes())
}

func TestInsertNeverOverwrites(t *testing.T) {
	tr := New()

	ok, err := tr.Insert("cut", 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tr.Insert("cut", 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 10, search(t, tr, "cut"))
	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, 3, tr.Nodes())
}

func TestInsertPrefixOfExistingWord(t *testing.T) {
	tr := build(t, []wordfreq.Pair{{Word: "cuts", Frequency: 5}})
	nodes := tr.Nodes()

	ok, err := tr.Insert("cut", 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, nodes, tr.Nodes(), "prefix reuses the existing path")
	assert.Equal(t, 10, search(t, tr, "cut"))
	assert.Equal(t, 5, search(t, tr, "cuts"))
	require.NoError(t, tr.Check())
}

func TestInvalidInput(t *testing.T) {
	tr := build(t, sample)

	_, err := tr.Insert("", 3)
	assert.ErrorIs(t, err, wordfreq.ErrEmptyWord)
	_, err = tr.Insert("dog", 0)
	assert.ErrorIs(t, err, wordfreq.ErrInvalidFrequency)
	_, err = tr.Insert("d\xffg", 1)
	assert.ErrorIs(t, err, wordfreq.ErrInvalidEncoding)
	_, err = tr.Search("")
	assert.ErrorIs(t, err, wordfreq.ErrEmptyWord)
	_, err = tr.Delete("")
	assert.ErrorIs(t, err, wordfreq.ErrEmptyWord)

	assert.Equal(t, len(sample), tr.Len())
	require.NoError(t, tr.Check())
}

func TestDelete(t *testing.T) {
	t.Run("returns true exactly once", func(t *testing.T) {
		tr := build(t, sample)

		ok, err := tr.Delete("cub")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, search(t, tr, "cub"))

		ok, err = tr.Delete("cub")
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, tr.Check())
	})

	t.Run("absent words leave the tree untouched", func(t *testing.T) {
		tr := build(t, sample)
		before := tr.String()

		for _, w := range []string{"cu", "c", "cutest", "dog", "cuta"} {
			ok, err := tr.Delete(w)
			require.NoError(t, err)
			assert.False(t, ok, w)
		}
		assert.Equal(t, before, tr.String())
		assert.Equal(t, len(sample), tr.Len())
	})

	t.Run("shared prefixes survive", func(t *testing.T) {
		tr := build(t, sample)

		ok, err := tr.Delete("cut")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Zero(t, search(t, tr, "cut"))
		assert.Equal(t, 5, search(t, tr, "cuts"))
		assert.Equal(t, 20, search(t, tr, "cute"))
		assert.Equal(t, 8, search(t, tr, "cub"))
		assert.Equal(t, 6, tr.Nodes(), "'t' still leads to 'cuts' and 'cute'")
		require.NoError(t, tr.Check())
	})

	t.Run("longer word is pruned up to the shared prefix", func(t *testing.T) {
		tr := build(t, []wordfreq.Pair{
			{Word: "cut", Frequency: 10},
			{Word: "cutlery", Frequency: 2},
		})

		ok, err := tr.Delete("cutlery")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, 3, tr.Nodes())
		assert.Equal(t, 10, search(t, tr, "cut"))
		require.NoError(t, tr.Check())
	})

	t.Run("pruning walks through sibling nodes", func(t *testing.T) {
		tr := build(t, sample)
		steps := []struct {
			word  string
			nodes int
		}{
			{"cut", 6},
			{"cuts", 6},
			{"cute", 4},
			{"cub", 0},
		}
		for _, s := range steps {
			ok, err := tr.Delete(s.word)
			require.NoError(t, err)
			require.True(t, ok, s.word)
			assert.Equal(t, s.nodes, tr.Nodes(), "after deleting %q", s.word)
			require.NoError(t, tr.Check())
		}
		assert.Zero(t, tr.Len())
		assert.Nil(t, tr.root)
	})

	t.Run("dead routing root is collected", func(t *testing.T) {
		tr := build(t, []wordfreq.Pair{
			{Word: "b", Frequency: 1},
			{Word: "a", Frequency: 1},
			{Word: "c", Frequency: 1},
		})
		for _, w := range []string{"b", "a", "c"} {
			ok, err := tr.Delete(w)
			require.NoError(t, err)
			require.True(t, ok, w)
			require.NoError(t, tr.Check())
		}
		assert.Nil(t, tr.root)
		assert.Zero(t, tr.Nodes())
	})

	t.Run("reinsert after delete", func(t *testing.T) {
		tr := build(t, sample)
		_, err := tr.Delete("cute")
		require.NoError(t, err)

		ok, err := tr.Insert("cute", 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, search(t, tr, "cute"))
		require.NoError(t, tr.Check())
	})
}

func TestAutocomplete(t *testing.T) {
	t.Run("scenario", func(t *testing.T) {
		tr := build(t, sample)

		assert.Equal(t, []wordfreq.Pair{
			{Word: "cute", Frequency: 20},
			{Word: "cut", Frequency: 10},
			{Word: "cub", Frequency: 8},
		}, tr.Autocomplete("cu"))

		ok, err := tr.Delete("cut")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Zero(t, search(t, tr, "cut"))
		assert.Equal(t, 5, search(t, tr, "cuts"))

		assert.Equal(t, []wordfreq.Pair{
			{Word: "cute", Frequency: 20},
			{Word: "cub", Frequency: 8},
			{Word: "cuts", Frequency: 5},
		}, tr.Autocomplete("cu"))
	})

	t.Run("prefix that is a word is a candidate", func(t *testing.T) {
		tr := build(t, sample)
		assert.Equal(t, []wordfreq.Pair{
			{Word: "cute", Frequency: 20},
			{Word: "cut", Frequency: 10},
			{Word: "cuts", Frequency: 5},
		}, tr.Autocomplete("cut"))
		assert.Equal(t, []wordfreq.Pair{{Word: "cub", Frequency: 8}}, tr.Autocomplete("cub"))
	})

	t.Run("anchor without completions", func(t *testing.T) {
		tr := build(t, sample)
		ok, err := tr.Delete("cub")
		require.NoError(t, err)
		require.True(t, ok)

		got := tr.Autocomplete("cub")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("no match is empty, not nil", func(t *testing.T) {
		tr := build(t, sample)
		for _, p := range []string{"d", "cx", "cutesy", "a", "cuts!", "\xff"} {
			got := tr.Autocomplete(p)
			assert.NotNil(t, got, p)
			assert.Empty(t, got, p)
		}
	})

	t.Run("empty prefix ranks the whole tree", func(t *testing.T) {
		tr := build(t, append([]wordfreq.Pair{{Word: "dog", Frequency: 15}}, sample...))
		assert.Equal(t, []wordfreq.Pair{
			{Word: "cute", Frequency: 20},
			{Word: "dog", Frequency: 15},
			{Word: "cut", Frequency: 10},
		}, tr.Autocomplete(""))
	})

	t.Run("ties break on word order", func(t *testing.T) {
		tr := build(t, []wordfreq.Pair{
			{Word: "bat", Frequency: 3},
			{Word: "bad", Frequency: 3},
			{Word: "bag", Frequency: 3},
			{Word: "ban", Frequency: 3},
			{Word: "bar", Frequency: 1},
		})
		assert.Equal(t, []wordfreq.Pair{
			{Word: "bad", Frequency: 3},
			{Word: "bag", Frequency: 3},
			{Word: "ban", Frequency: 3},
		}, tr.Autocomplete("ba"))
	})

	t.Run("sibling subtrees below the anchor keep the prefix", func(t *testing.T) {
		tr := build(t, []wordfreq.Pair{
			{Word: "tm", Frequency: 1},
			{Word: "ta", Frequency: 4},
			{Word: "tz", Frequency: 6},
			{Word: "tza", Frequency: 9},
			{Word: "a", Frequency: 50},
		})
		assert.Equal(t, []wordfreq.Pair{
			{Word: "tza", Frequency: 9},
			{Word: "tz", Frequency: 6},
			{Word: "ta", Frequency: 4},
		}, tr.Autocomplete("t"))
	})
}

func TestAutocompleteProperties(t *testing.T) {
	words := strings.Fields(`a an and ant ante anti antic antics apple apply ape
		b be bee been beer bees beet beetle c ca cab cabbage cable cat cater cats`)
	pairs := make([]wordfreq.Pair, len(words))
	for i, w := range words {
		pairs[i] = wordfreq.Pair{Word: w, Frequency: 1 + (i*7)%11}
	}
	tr := build(t, pairs)

	prefixes := []string{"", "a", "an", "ant", "anti", "ap", "b", "be", "bee", "c", "ca", "cat", "x"}
	for _, prefix := range prefixes {
		got := tr.Autocomplete(prefix)
		assert.LessOrEqual(t, len(got), 3, prefix)
		for i, p := range got {
			assert.True(t, strings.HasPrefix(p.Word, prefix), "%q does not start with %q", p.Word, prefix)
			if i > 0 {
				assert.GreaterOrEqual(t, got[i-1].Frequency, p.Frequency)
			}
		}
		assert.Equal(t, bruteForce(pairs, prefix, 3), got, prefix)
	}
}

func TestTopLimit(t *testing.T) {
	tr := build(t, sample)
	assert.Len(t, tr.Top("cu", 0), 4)
	assert.Len(t, tr.Top("cu", 10), 4)
	assert.Equal(t, []wordfreq.Pair{{Word: "cute", Frequency: 20}}, tr.Top("cu", 1))
}

func TestAll(t *testing.T) {
	tr := build(t, sample)

	var words []string
	for w, f := range tr.All() {
		words = append(words, w)
		assert.Equal(t, search(t, tr, w), f)
	}
	assert.Equal(t, []string{"cub", "cut", "cute", "cuts"}, words)

	var first string
	for w := range tr.All() {
		first = w
		break
	}
	assert.Equal(t, "cub", first)
}

func TestEmptyTree(t *testing.T) {
	tr := New()

	assert.Zero(t, search(t, tr, "anything"))
	assert.Empty(t, tr.Autocomplete("a"))
	assert.Empty(t, tr.Autocomplete(""))

	ok, err := tr.Delete("a")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.String())
	require.NoError(t, tr.Check())

	var zero Tree
	ok, err = zero.Insert("a", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckDetectsCorruption(t *testing.T) {
	t.Run("sibling order", func(t *testing.T) {
		tr := build(t, sample)
		tr.root.middle.middle.left.char = 'z'
		assert.ErrorIs(t, tr.Check(), ErrCorrupt)
	})

	t.Run("frequency on non-terminal", func(t *testing.T) {
		tr := build(t, sample)
		tr.root.freq = 3
		assert.ErrorIs(t, tr.Check(), ErrCorrupt)
	})

	t.Run("counters", func(t *testing.T) {
		tr := build(t, sample)
		tr.words++
		assert.ErrorIs(t, tr.Check(), ErrCorrupt)
	})
}

func TestLongSharedPrefix(t *testing.T) {
	long := strings.Repeat("a", 100000)
	tr := build(t, []wordfreq.Pair{
		{Word: long, Frequency: 2},
		{Word: long + "b", Frequency: 3},
	})

	got := tr.Autocomplete("a")
	require.Len(t, got, 2)
	assert.Equal(t, long+"b", got[0].Word)

	ok, err := tr.Delete(long + "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, len(long), tr.Nodes())
}

// bruteForce ranks matches straight from the input, the way a list backend would.
func bruteForce(pairs []wordfreq.Pair, prefix string, limit int) []wordfreq.Pair {
	var matches []wordfreq.Pair
	for _, p := range pairs {
		if strings.HasPrefix(p.Word, prefix) {
			matches = append(matches, p)
		}
	}
	return wordfreq.Rank(matches, limit)
}

func FuzzTreeAgainstMap(f *testing.F) {
	f.Add("cut cuts cub cute", "cu", uint8(2))
	f.Add("b a c ab ba", "", uint8(1))
	f.Add("héllo hé h\xffx", "h", uint8(3))

	f.Fuzz(func(t *testing.T, input, prefix string, stride uint8) {
		tr := New()
		ref := map[string]int{}

		for i, w := range strings.Fields(input) {
			freq := 1 + (i*13)%17
			ok, err := tr.Insert(w, freq)
			if wordfreq.Validate(w, freq) != nil {
				require.Error(t, err)
				continue
			}
			require.NoError(t, err)
			_, dup := ref[w]
			require.Equal(t, !dup, ok)
			if !dup {
				ref[w] = freq
			}
		}
		require.NoError(t, tr.Check())

		step := int(stride%4) + 1
		keys := make([]string, 0, len(ref))
		for w := range ref {
			keys = append(keys, w)
		}
		sort.Strings(keys)
		for i := 0; i < len(keys); i += step {
			ok, err := tr.Delete(keys[i])
			require.NoError(t, err)
			require.True(t, ok)
			delete(ref, keys[i])
		}
		require.NoError(t, tr.Check())
		require.Equal(t, len(ref), tr.Len())

		for w, freq := range ref {
			got, err := tr.Search(w)
			require.NoError(t, err)
			require.Equal(t, freq, got)
		}

		var remaining []wordfreq.Pair
		for w, freq := range ref {
			remaining = append(remaining, wordfreq.Pair{Word: w, Frequency: freq})
		}
		if utf8.ValidString(prefix) {
			require.Equal(t, bruteForce(remaining, prefix, 3), tr.Autocomplete(prefix))
		}

		var all []string
		for w := range tr.All() {
			all = append(all, w)
		}
		require.True(t, slices.IsSorted(all))
	})
}

var benchPrefixes = []string{
	"a", "ab", "abc", "h", "he", "hel", "hell", "hello",
	"p", "pr", "pro", "prog", "program", "c", "co", "com", "comp", "computer",
}

func benchTree(b *testing.B) *Tree {
	b.Helper()
	tr := New()
	seeds := []string{"hello", "help", "program", "progress", "computer", "compute", "abc", "about"}
	for i := 0; i < 20000; i++ {
		w := seeds[i%len(seeds)] + strings.Repeat(string(rune('a'+i%26)), 1+i%5) + string(rune('a'+(i/26)%26))
		_, _ = tr.Insert(w, 1+i%1000)
	}
	return tr
}

func BenchmarkAutocomplete(b *testing.B) {
	tr := benchTree(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.Autocomplete(benchPrefixes[i%len(benchPrefixes)])
	}
}

func BenchmarkSearch(b *testing.B) {
	tr := benchTree(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tr.Search(benchPrefixes[i%len(benchPrefixes)])
	}
}

func BenchmarkInsertDelete(b *testing.B) {
	tr := benchTree(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := benchPrefixes[i%len(benchPrefixes)] + "zz"
		_, _ = tr.Insert(w, 1)
		_, _ = tr.Delete(w)
	}
}
