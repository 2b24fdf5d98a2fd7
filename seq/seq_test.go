package seq

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOf_Scenarios(t *testing.T) {
	a := []int{2, 3}
	one, two := []int{1, 2}, []int{3, 4, 5}

	tests := []struct {
		name string
		got  []int
		want []int
	}{
		{
			name: "empty",
			got:  Of[int](),
			want: []int{},
		},
		{
			name: "with trailing comma",
			got: Of(
				One(0), One(1), Spread(a), One(4), One(5),
			),
			want: []int{0, 1, 2, 3, 4, 5},
		},
		{
			name: "without trailing comma",
			got:  Of(One(0), One(1), Spread(a), One(4), One(5)),
			want: []int{0, 1, 2, 3, 4, 5},
		},
		{
			name: "multiple spreads",
			got:  Of(One(0), Spread(one), Spread(two), One(6), One(7)),
			want: []int{0, 1, 2, 3, 4, 5, 6, 7},
		},
		{
			name: "no spreads",
			got:  Of(One(0), One(1), One(2)),
			want: []int{0, 1, 2},
		},
		{
			name: "spread only",
			got:  Of(Spread(one)),
			want: []int{1, 2},
		},
		{
			name: "empty spreads contribute nothing",
			got:  Of(Spread[int](nil), One(9), Spread([]int{}), SpreadSeq[int](nil)),
			want: []int{9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got == nil {
				t.Fatal("expected non-nil result")
			}

			if diff := cmp.Diff(tt.want, tt.got); diff != "" {
				t.Errorf("Of() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOf_PureLiteralEquivalence(t *testing.T) {
	want := []string{"a", "b", "c"}

	if diff := cmp.Diff(want, Of(One("a"), One("b"), One("c"))); diff != "" {
		t.Errorf("Of() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(want, Values("a", "b", "c")); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_DoesNotAlias(t *testing.T) {
	src := []int{1, 2, 3}
	got := Values(src...)
	got[0] = 100

	if src[0] != 1 {
		t.Errorf("expected source to be unchanged, got %v", src)
	}
}

func TestOf_SingleSpreadIdentity(t *testing.T) {
	sources := [][]int{
		{},
		{7},
		{3, 1, 2},
		{5, 5, 5, 5},
	}

	for _, src := range sources {
		got := Of(Spread(src))
		if !slices.Equal(got, src) {
			t.Errorf("expected %v, got %v", src, got)
		}

		got = Of(SpreadSeq(slices.Values(src)))
		if !slices.Equal(got, src) {
			t.Errorf("expected %v from iterator, got %v", src, got)
		}
	}
}

func TestOf_SpreadSeq(t *testing.T) {
	evens := func(yield func(int) bool) {
		for i := 0; i < 10; i += 2 {
			if !yield(i) {
				return
			}
		}
	}

	got := Of(One(-1), SpreadSeq(evens), One(99))
	want := []int{-1, 0, 2, 4, 6, 8, 99}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Of() mismatch (-want +got):\n%s", diff)
	}
}

func TestOf_EvaluationOrder(t *testing.T) {
	var trace []string

	note := func(s string, v int) int {
		trace = append(trace, s)

		return v
	}

	noteSlice := func(s string, v ...int) []int {
		trace = append(trace, s)

		return v
	}

	got := Of(
		One(note("a", 0)),
		Spread(noteSlice("b", 1, 2)),
		One(note("c", 3)),
		Spread(noteSlice("d", 4)),
	)

	if diff := cmp.Diff([]int{0, 1, 2, 3, 4}, got); diff != "" {
		t.Errorf("Of() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, trace); diff != "" {
		t.Errorf("evaluation order mismatch (-want +got):\n%s", diff)
	}
}

func TestOf_SeqDrainedInItemOrder(t *testing.T) {
	var trace []string

	lazy := func(name string, v ...int) func(func(int) bool) {
		return func(yield func(int) bool) {
			trace = append(trace, name)

			for _, x := range v {
				if !yield(x) {
					return
				}
			}
		}
	}

	got := Of(SpreadSeq(lazy("x", 1)), One(2), SpreadSeq(lazy("y", 3, 4)))

	if diff := cmp.Diff([]int{1, 2, 3, 4}, got); diff != "" {
		t.Errorf("Of() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"x", "y"}, trace); diff != "" {
		t.Errorf("drain order mismatch (-want +got):\n%s", diff)
	}
}

func TestOf_Capacity(t *testing.T) {
	got := Of(One(1), Spread([]int{2, 3, 4}), One(5))

	if cap(got) != len(got) {
		t.Errorf("expected capacity %d, got %d", len(got), cap(got))
	}
}

func TestAppend_ExtendsExisting(t *testing.T) {
	dst := []int{-2, -1}
	got := Append(dst, One(0), Spread([]int{1, 2}))

	if diff := cmp.Diff([]int{-2, -1, 0, 1, 2}, got); diff != "" {
		t.Errorf("Append() mismatch (-want +got):\n%s", diff)
	}
}

func TestItem_Introspection(t *testing.T) {
	tests := []struct {
		name   string
		item   Item[int]
		spread bool
		length int
		all    []int
	}{
		{"one", One(4), false, 1, []int{4}},
		{"zero value", Item[int]{}, false, 1, []int{0}},
		{"slice", Spread([]int{1, 2}), true, 2, []int{1, 2}},
		{"nil slice", Spread[int](nil), true, 0, nil},
		{"seq", SpreadSeq(slices.Values([]int{8, 9})), true, -1, []int{8, 9}},
		{"nil seq", SpreadSeq[int](nil), true, -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.IsSpread(); got != tt.spread {
				t.Errorf("expected IsSpread %v, got %v", tt.spread, got)
			}

			if got := tt.item.Len(); got != tt.length {
				t.Errorf("expected Len %d, got %d", tt.length, got)
			}

			if diff := cmp.Diff(tt.all, slices.Collect(tt.item.All())); diff != "" {
				t.Errorf("All() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestItem_AllStopsEarly(t *testing.T) {
	item := Spread([]int{1, 2, 3, 4})

	var got []int

	for v := range item.All() {
		got = append(got, v)
		if v == 2 {
			break
		}
	}

	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder[int](4)
	b.Push(0, 1).Extend([]int{2, 3}).ExtendSeq(slices.Values([]int{4})).
		Add(One(5), Spread([]int{6, 7}))

	if b.Len() != 8 {
		t.Errorf("expected Len 8, got %d", b.Len())
	}

	got := b.Items()
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7}, got); diff != "" {
		t.Errorf("Items() mismatch (-want +got):\n%s", diff)
	}

	b.Push(8)

	if len(got) != 8 {
		t.Errorf("expected earlier Items() to keep length 8, got %d", len(got))
	}
}

func TestBuilder_ZeroValue(t *testing.T) {
	var b Builder[string]

	got := b.Items()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}
