package reorder

import (
	"sort"
	"testing"

	"github.com/go-test/deep"
)

type item struct{ name string }

func items(names ...string) []*item {
	out := make([]*item, len(names))
	for i, n := range names {
		out[i] = &item{name: n}
	}
	return out
}

func names(list []*item) []string {
	out := make([]string, len(list))
	for i, it := range list {
		out[i] = it.name
	}
	return out
}

func TestDropScenarios(t *testing.T) {
	tests := []struct {
		name     string
		drag     int
		over     int // -1 - вне элементов
		drop     int // -1 - в конец
		expected []string
	}{
		{"A на C", 0, 2, 2, []string{"B", "C", "A"}},
		{"B в конец", 1, -1, -1, []string{"A", "C", "B"}},
		{"C на A", 2, 0, 0, []string{"C", "A", "B"}},
		{"A на B", 0, 1, 1, []string{"B", "A", "C"}},
		{"C в конец", 2, -1, -1, []string{"A", "B", "C"}},
		{"B на себя", 1, 1, 1, []string{"A", "B", "C"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			list := items("A", "B", "C")
			var c Controller[*item]

			if !c.BeginDrag(list, list[test.drag]) {
				t.Fatal("BeginDrag должен вернуть true для элемента списка")
			}
			c.DragOver(list, at(list, test.over))
			got := c.Drop(list, at(list, test.drop))

			if diff := deep.Equal(names(got), test.expected); diff != nil {
				t.Errorf("Неверный порядок: %v", diff)
			}
			if c.Active() || c.SourceIndex() != None || c.InsertionIndex() != None {
				t.Error("После Drop состояние должно сброситься")
			}
		})
	}
}

func TestDropIsPermutation(t *testing.T) {
	list := items("A", "B", "C", "D", "E")

	for from := range list {
		for to := -1; to < len(list); to++ {
			var c Controller[*item]
			c.BeginDrag(list, list[from])
			got := c.Drop(list, at(list, to))

			if len(got) != len(list) {
				t.Fatalf("Длина изменилась: %d -> %d", len(list), len(got))
			}
			gotNames := names(got)
			sort.Strings(gotNames)
			if diff := deep.Equal(gotNames, []string{"A", "B", "C", "D", "E"}); diff != nil {
				t.Errorf("drag %d drop %d: состав изменился: %v", from, to, diff)
			}
			if to == -1 && got[len(got)-1] != list[from] {
				t.Errorf("drag %d в конец: элемент должен стать последним", from)
			}
		}
	}

	if diff := deep.Equal(names(list), []string{"A", "B", "C", "D", "E"}); diff != nil {
		t.Errorf("Входной список не должен изменяться: %v", diff)
	}
}

func TestDragOverTracksInsertion(t *testing.T) {
	list := items("A", "B", "C")
	var c Controller[*item]

	c.BeginDrag(list, list[0])
	if c.SourceIndex() != 0 || c.InsertionIndex() != 0 {
		t.Fatalf("После BeginDrag ожидалось 0/0, получено %d/%d", c.SourceIndex(), c.InsertionIndex())
	}

	c.DragOver(list, list[2])
	if c.InsertionIndex() != 2 || c.InsertionTarget(list) != list[2] {
		t.Errorf("Ожидалась вставка перед C, получено %d", c.InsertionIndex())
	}

	c.DragOver(list, nil)
	if c.InsertionIndex() != 3 || c.InsertionTarget(list) != nil {
		t.Errorf("Ожидалась вставка в конец, получено %d", c.InsertionIndex())
	}
	if c.PlaceholderSlot(list) != 2 {
		t.Errorf("Заглушка в конце укороченного списка ожидалась на 2, получено %d", c.PlaceholderSlot(list))
	}
}

func TestEndDragLeavesListUnchanged(t *testing.T) {
	list := items("A", "B")
	var c Controller[*item]

	c.BeginDrag(list, list[1])
	c.DragOver(list, list[0])
	c.EndDrag()

	if c.Active() {
		t.Error("После EndDrag перетаскивание должно завершиться")
	}
	if got := c.Drop(list, list[0]); changed(got, list) {
		t.Error("Drop без активного перетаскивания не должен менять список")
	}
	if c.PlaceholderSlot(list) != None {
		t.Error("Без перетаскивания заглушки нет")
	}
}

func TestBeginDragUnknownItem(t *testing.T) {
	list := items("A")
	var c Controller[*item]

	if c.BeginDrag(list, &item{name: "X"}) {
		t.Error("BeginDrag для чужого элемента должен вернуть false")
	}
	c.DragOver(list, list[0])
	if c.Active() || c.InsertionIndex() != None {
		t.Error("Перетаскивание не должно начаться")
	}
}

func TestControllerWithStrings(t *testing.T) {
	list := []string{"a", "b", "c"}
	var c Controller[string]

	c.BeginDrag(list, "a")
	got := c.Drop(list, "")

	if diff := deep.Equal(got, []string{"b", "c", "a"}); diff != nil {
		t.Errorf("Неверный порядок: %v", diff)
	}
}

func at(list []*item, i int) *item {
	if i < 0 {
		return nil
	}
	return list[i]
}

func changed(a, b []*item) bool {
	if len(a) != len(b) {
		return true
	}
	for i := range a {
		if a[i] != b[i] {
			return true
		}
	}
	return false
}
