package freq

import (
	"reflect"
	"testing"
)

func TestTableAdd(t *testing.T) {
	table := NewTable()
	table.Add([]string{"the", "cat", "the"})
	table.Add(nil)
	table.Add([]string{"dog", "the"})

	if table.Total() != 5 {
		t.Errorf("Total() = %d, want 5", table.Total())
	}
	if table.Sum() != table.Total() {
		t.Errorf("Sum() = %d, Total() = %d", table.Sum(), table.Total())
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	counts := map[string]int{"the": 3, "cat": 1, "dog": 1, "bird": 0}
	for word, want := range counts {
		if got := table.Count(word); got != want {
			t.Errorf("Count(%q) = %d, want %d", word, got, want)
		}
	}
}

func TestTopOrdersByCount(t *testing.T) {
	table := NewTable()
	table.Add([]string{"b", "a", "a", "c", "a", "c"})

	got := table.Top(10)
	want := []Entry{
		{Rank: 1, Word: "a", Count: 3, FreqPerMillion: 500000},
		{Rank: 2, Word: "c", Count: 2, FreqPerMillion: 333333.333333},
		{Rank: 3, Word: "b", Count: 1, FreqPerMillion: 166666.666667},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Top(10) = %+v, want %+v", got, want)
	}
}

func TestTopIsStableForTies(t *testing.T) {
	table := NewTable()
	table.Add([]string{"zeta", "alpha", "mid", "mid", "omega", "beta"})

	var words []string
	for _, e := range table.Top(0) {
		words = append(words, e.Word)
	}

	want := []string{"mid", "zeta", "alpha", "omega", "beta"}
	if !reflect.DeepEqual(words, want) {
		t.Errorf("ranked words = %v, want %v", words, want)
	}
}

func TestTopLimits(t *testing.T) {
	table := NewTable()
	table.Add([]string{"a", "b", "c", "a"})

	tests := []struct {
		n    int
		want int
	}{
		{1, 1},
		{2, 2},
		{3, 3},
		{100, 3},
		{0, 3},
		{-1, 3},
	}

	for _, tt := range tests {
		if got := len(table.Top(tt.n)); got != tt.want {
			t.Errorf("len(Top(%d)) = %d, want %d", tt.n, got, tt.want)
		}
	}

	if len(NewTable().Top(10)) != 0 {
		t.Error("empty table should rank nothing")
	}
}

func TestTopDoesNotMutateOrder(t *testing.T) {
	table := NewTable()
	table.Add([]string{"x", "y", "y"})
	table.Top(1)
	table.Add([]string{"x", "x"})

	got := table.Top(0)
	if got[0].Word != "x" || got[0].Count != 3 {
		t.Errorf("unexpected ranking after further adds: %+v", got)
	}
}

func TestPerMillionRate(t *testing.T) {
	tests := []struct {
		count int
		total int
		want  float64
	}{
		{5, 1_000_000, 5.0},
		{1, 3, 333333.333333},
		{2, 3, 666666.666667},
		{130, 130, 1_000_000},
		{7, 0, 0},
		{1, 7, 142857.142857},
	}

	for _, tt := range tests {
		if got := PerMillionRate(tt.count, tt.total); got != tt.want {
			t.Errorf("PerMillionRate(%d, %d) = %v, want %v", tt.count, tt.total, got, tt.want)
		}
	}
}
