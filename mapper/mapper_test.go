package mapper

import (
	"context"
	"math"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"record-mapper/descriptor"
	"record-mapper/policy"
	"record-mapper/primitive"
)

type Address struct {
	Street string
	City   string `record:"city"`
}

type Topping struct {
	ID   string `record:"id"`
	Type string `record:"type"`
}

type Item struct {
	ID       string   `record:"id"`
	Name     string   `record:"name"`
	PPU      float64  `record:"ppu"`
	Tags     []string `record:"tags"`
	Toppings []any
	Internal string
	Secret   string
}

func (Item) FieldPolicy() *policy.Policy {
	return policy.New().
		Exclude("Internal").
		ExcludeFromExtraction("Secret").
		MapKey("Toppings", "topping").
		ElementType("Toppings", reflect.TypeFor[Topping]())
}

type Status string

type User struct {
	Name     string
	Age      int
	Active   bool
	Score    float64
	Status   Status
	Nickname *string
	Home     Address
	Work     *Address
	Extra    map[string]any
	Items    []Item
	Created  time.Time
	Timeout  time.Duration
}

type Bag struct {
	Label string
	Stuff []any
}

type Counter struct {
	Small int8
	Big   uint
	Nums  []int
}

type Node struct {
	Name string
	Next *Node
}

type Session struct {
	Name string
}

type Entity struct {
	ID       string
	Session  *Session `record:"-"`
	Children []*Entity
	Parent   *Entity
}

func (e *Entity) InitWithContext(pctx any) {
	e.Session, _ = pctx.(*Session)
}

type recorder struct {
	mu     sync.Mutex
	skips  []SkipEvent
	mapped map[Direction]int
}

func (r *recorder) FieldSkipped(ev SkipEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.skips = append(r.skips, ev)
}

func (r *recorder) ObjectMapped(_ reflect.Type, d Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mapped == nil {
		r.mapped = make(map[Direction]int)
	}

	r.mapped[d]++
}

func (r *recorder) reasons() map[string]Reason {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]Reason, len(r.skips))
	for _, ev := range r.skips {
		out[ev.Field] = ev.Reason
	}

	return out
}

func newTestMapper(opts ...Option) (*Mapper, *recorder) {
	rec := &recorder{}
	opts = append([]Option{WithObserver(rec), WithResolver(descriptor.NewResolver())}, opts...)

	return New(opts...), rec
}

func sampleUser() User {
	nick := "jd"

	return User{
		Name:     "John",
		Age:      42,
		Active:   true,
		Score:    9.5,
		Status:   "gold",
		Nickname: &nick,
		Home:     Address{Street: "Main 1", City: "Oslo"},
		Extra:    map[string]any{"source": "import"},
		Items: []Item{{
			ID:       "0001",
			Name:     "Cake",
			PPU:      0.55,
			Tags:     []string{"sweet"},
			Toppings: []any{Topping{ID: "5001", Type: "None"}},
		}},
		Created: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Timeout: 3 * time.Second,
	}
}

func TestRoundTrip(t *testing.T) {
	m, _ := newTestMapper()
	u := sampleUser()

	rec := m.Extract(&u)
	got := Build[User](m, rec)

	require.NotNil(t, got)
	assert.Equal(t, u, *got)
}

func TestExtract(t *testing.T) {
	m, _ := newTestMapper()
	u := sampleUser()

	rec := m.Extract(u)

	assert.Equal(t, "John", rec["Name"])
	assert.Equal(t, 42, rec["Age"])
	assert.Equal(t, "jd", rec["Nickname"])
	assert.Equal(t, Record{"Street": "Main 1", "city": "Oslo"}, rec["Home"])
	assert.NotContains(t, rec, "Work", "nil pointers are omitted")

	items, ok := rec["Items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)

	item := items[0].(Record)
	assert.Equal(t, []any{Record{"id": "5001", "type": "None"}}, item["topping"])
	assert.Equal(t, []any{"sweet"}, item["tags"])
	assert.Contains(t, item, "Internal", "populate-only exclusion does not affect extraction")
	assert.NotContains(t, item, "Secret")
}

func TestPopulate_Idempotent(t *testing.T) {
	m, _ := newTestMapper()
	rec := m.Extract(sampleUser())

	var once, twice User
	m.Populate(&once, rec)
	m.Populate(&twice, rec)
	m.Populate(&twice, rec)

	assert.Equal(t, once, twice)
}

func TestPopulate_LeavesRecordUntouched(t *testing.T) {
	m, _ := newTestMapper()
	rec := Record{"Name": "A", "Home": map[string]string{"city": "Rome"}}

	var u User
	m.Populate(&u, rec)

	assert.Equal(t, Record{"Name": "A", "Home": map[string]string{"city": "Rome"}}, rec)
	assert.Equal(t, "Rome", u.Home.City)
}

func TestPopulate_Exclusion(t *testing.T) {
	m, _ := newTestMapper()
	item := Item{Internal: "keep"}

	m.Populate(&item, Record{"Internal": "overwrite", "Secret": "s", "name": "Cake"})

	assert.Equal(t, "keep", item.Internal)
	assert.Equal(t, "s", item.Secret, "extraction exclusion does not affect populate")
	assert.Equal(t, "Cake", item.Name)
}

func TestPopulate_KeyOverride(t *testing.T) {
	m, _ := newTestMapper()

	item := Build[Item](m, Record{
		"Toppings": []any{map[string]any{"id": "ignored"}},
		"topping":  []any{map[string]any{"id": "5002", "type": "Glazed"}},
	})

	require.Len(t, item.Toppings, 1)
	assert.Equal(t, Topping{ID: "5002", Type: "Glazed"}, item.Toppings[0])
}

func TestPopulate_Resilience(t *testing.T) {
	m, obs := newTestMapper()
	u := User{Name: "keep", Age: 1}

	m.Populate(&u, Record{
		"Name":   42,
		"Age":    "7",
		"Active": "yes",
		"Score":  "not a number",
		"Home":   "not a record",
		"Items":  "not an array",
		"Work":   nil,
		"Bogus":  "ignored",
	})

	assert.Equal(t, "keep", u.Name)
	assert.Equal(t, 7, u.Age)
	assert.True(t, u.Active)
	assert.Zero(t, u.Score)
	assert.Equal(t, Address{}, u.Home)
	assert.Nil(t, u.Items)

	reasons := obs.reasons()
	assert.Equal(t, ReasonMismatch, reasons["Name"])
	assert.Equal(t, ReasonMismatch, reasons["Score"])
	assert.Equal(t, ReasonNotRecord, reasons["Home"])
	assert.Equal(t, ReasonNotArray, reasons["Items"])
	assert.Equal(t, ReasonNil, reasons["Work"])
	assert.NotContains(t, reasons, "Age")
}

func TestPopulate_RejectedNumbersKeepPriorValue(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		raw    any
		reason Reason
	}{
		{"hex text", "Age", "0x10", ReasonMismatch},
		{"binary text", "Age", "0b11", ReasonMismatch},
		{"digit separators", "Age", "1_000", ReasonMismatch},
		{"fraction text", "Age", "1.5", ReasonOverflow},
		{"overflowing text", "Age", "99999999999999999999", ReasonOverflow},
		{"nan text", "Score", "NaN", ReasonMismatch},
		{"nan seconds", "Timeout", math.NaN(), ReasonOverflow},
		{"infinite seconds", "Timeout", math.Inf(1), ReasonOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, obs := newTestMapper()
			u := User{Age: -1, Score: 0.5, Timeout: time.Second}

			m.Populate(&u, Record{tt.field: tt.raw})

			assert.Equal(t, -1, u.Age)
			assert.Equal(t, 0.5, u.Score)
			assert.Equal(t, time.Second, u.Timeout)
			assert.Equal(t, tt.reason, obs.reasons()[tt.field])
		})
	}
}

func TestPopulate_DecimalText(t *testing.T) {
	m, obs := newTestMapper()

	for raw, want := range map[string]int{"0123": 123, "08": 8, "07": 7, "1e3": 1000} {
		u := User{Age: -1}
		m.Populate(&u, Record{"Age": raw})
		assert.Equal(t, want, u.Age, raw)
	}

	assert.Empty(t, obs.reasons())
}

func TestPopulate_Scalars(t *testing.T) {
	m, obs := newTestMapper()

	var c Counter
	m.Populate(&c, Record{"Small": 300, "Big": 12.0, "Nums": []any{1, "2", 3.0}})

	assert.Zero(t, c.Small)
	assert.Equal(t, uint(12), c.Big)
	assert.Equal(t, []int{1, 2, 3}, c.Nums)
	assert.Equal(t, ReasonOverflow, obs.reasons()["Small"])

	c = Counter{Nums: []int{9}}
	m.Populate(&c, Record{"Nums": []any{1, "x"}})
	assert.Equal(t, []int{9}, c.Nums, "scalar arrays are converted as a whole")
}

func TestPopulate_Categories(t *testing.T) {
	m, _ := newTestMapper(WithCategories(primitive.DefaultCategories | primitive.CategoryNumberText))

	var u User
	m.Populate(&u, Record{"Name": 42})

	assert.Equal(t, "42", u.Name)
}

func TestPopulate_NestedReconstruction(t *testing.T) {
	m, _ := newTestMapper()

	u := Build[User](m, Record{
		"Home": Record{"Street": "A", "city": "B"},
		"Work": map[string]any{"city": "C"},
		"Items": []map[string]any{
			{"id": "1", "topping": []any{Record{"id": "t1"}}},
			{"id": "2"},
		},
	})

	assert.Equal(t, Address{Street: "A", City: "B"}, u.Home)
	require.NotNil(t, u.Work)
	assert.Equal(t, "C", u.Work.City)
	require.Len(t, u.Items, 2)
	assert.Equal(t, "1", u.Items[0].ID)
	assert.Equal(t, []any{Topping{ID: "t1"}}, u.Items[0].Toppings)
	assert.Equal(t, "2", u.Items[1].ID)
}

func TestPopulate_NestedValueInPlacePointerReplaced(t *testing.T) {
	m, _ := newTestMapper()

	prior := &Address{Street: "Work 1", City: "Bergen"}
	u := User{
		Home: Address{Street: "Main 1", City: "Oslo"},
		Work: prior,
	}

	m.Populate(&u, Record{
		"Home": Record{"city": "Rome"},
		"Work": Record{"city": "Paris"},
	})

	assert.Equal(t, Address{Street: "Main 1", City: "Rome"}, u.Home)
	require.NotNil(t, u.Work)
	assert.NotSame(t, prior, u.Work)
	assert.Equal(t, Address{City: "Paris"}, *u.Work)
	assert.Equal(t, Address{Street: "Work 1", City: "Bergen"}, *prior)
}

func TestPopulate_ObjectArrayNonRecordElement(t *testing.T) {
	m, obs := newTestMapper()

	u := Build[User](m, Record{"Items": []any{Record{"id": "1"}, "junk", Record{"id": "3"}}})

	require.Len(t, u.Items, 3)
	assert.Equal(t, "1", u.Items[0].ID)
	assert.Equal(t, Item{}, u.Items[1])
	assert.Equal(t, "3", u.Items[2].ID)
	assert.Equal(t, ReasonNotRecord, obs.reasons()["Items"])
}

func TestPopulate_UnknownElementPassthrough(t *testing.T) {
	m, _ := newTestMapper()
	stuff := []any{map[string]any{"a": 1}, "b", 3}

	bag := Build[Bag](m, Record{"Label": "x", "Stuff": stuff})

	assert.Equal(t, stuff, bag.Stuff)

	out := m.Extract(bag)
	assert.Equal(t, Record{"Label": "x", "Stuff": stuff}, out)
}

func TestPopulate_RegistryOverride(t *testing.T) {
	reg := policy.NewRegistry()
	m, _ := newTestMapper(WithRegistry(reg))

	bag := Build[Bag](m, Record{"Label": "x", "Stuff": []any{Record{"id": "1"}}})
	assert.Equal(t, []any{Record{"id": "1"}}, bag.Stuff)

	reg.Register(reflect.TypeFor[Bag](), policy.New().
		MapKey("Label", "label").
		ElementType("Stuff", reflect.TypeFor[*Topping]()))

	bag = Build[Bag](m, Record{"label": "y", "Stuff": []any{Record{"id": "1"}}})
	assert.Empty(t, bag.Label, "plans are cached until Reset")

	m.Reset()

	bag = Build[Bag](m, Record{"label": "y", "Stuff": []any{Record{"id": "1"}, "raw"}})
	assert.Equal(t, "y", bag.Label)
	assert.Equal(t, []any{&Topping{ID: "1"}, "raw"}, bag.Stuff)
}

func TestPopulate_MaxDepth(t *testing.T) {
	m, obs := newTestMapper(WithMaxDepth(2))

	n := Build[Node](m, Record{
		"Name": "a",
		"Next": Record{"Name": "b", "Next": Record{"Name": "c", "Next": Record{"Name": "d"}}},
	})

	require.NotNil(t, n.Next)
	require.NotNil(t, n.Next.Next)
	assert.Equal(t, "c", n.Next.Next.Name)
	assert.Nil(t, n.Next.Next.Next)
	assert.Equal(t, ReasonDepth, obs.reasons()["Next"])
}

func TestExtract_CycleStopsAtMaxDepth(t *testing.T) {
	m, obs := newTestMapper(WithMaxDepth(3))

	n := &Node{Name: "loop"}
	n.Next = n

	rec := m.Extract(n)

	depth := 0
	for cur := rec; cur != nil; depth++ {
		next, _ := cur["Next"].(Record)
		cur = next
	}

	assert.Equal(t, 4, depth)
	assert.Equal(t, ReasonDepth, obs.reasons()["Next"])
}

func TestContextConstruction(t *testing.T) {
	m, _ := newTestMapper()
	sess := &Session{Name: "s1"}

	rec := Record{
		"ID":       "root",
		"Parent":   Record{"ID": "p"},
		"Children": []any{Record{"ID": "c1"}, Record{"ID": "c2"}},
	}

	e := BuildWithContext[Entity](m, rec, sess)
	require.NotNil(t, e)
	assert.Same(t, sess, e.Session)
	assert.Same(t, sess, e.Parent.Session)
	require.Len(t, e.Children, 2)
	assert.Same(t, sess, e.Children[1].Session)

	plain := Build[Entity](m, rec)
	assert.Nil(t, plain.Session)
	assert.Nil(t, plain.Parent.Session)

	var existing Entity
	m.PopulateWithContext(&existing, rec, sess)
	assert.Nil(t, existing.Session, "the caller's object is not constructed again")
	assert.Same(t, sess, existing.Parent.Session)

	all := BuildArrayWithContext[Entity](m, []Record{{"ID": "a"}, {"ID": "b"}}, sess)
	require.Len(t, all, 2)
	assert.Same(t, sess, all[0].Session)
	assert.Equal(t, "b", all[1].ID)
}

func TestExtractFilters(t *testing.T) {
	m, _ := newTestMapper()
	a := Address{Street: "S", City: "C"}

	tests := []struct {
		name string
		got  Record
		want Record
	}{
		{"only", m.ExtractOnly(a, "City"), Record{"city": "C"}},
		{"only empty list", m.ExtractOnly(a), Record{"Street": "S", "city": "C"}},
		{"only unknown", m.ExtractOnly(a, "Nope"), Record{}},
		{"except", m.ExtractExcept(a, "City"), Record{"Street": "S"}},
		{"except empty list", m.ExtractExcept(&a), Record{"Street": "S", "city": "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestUnsupportedTargets(t *testing.T) {
	m, _ := newTestMapper()

	assert.Nil(t, m.Build(reflect.TypeFor[int](), Record{"a": 1}))
	assert.Nil(t, m.Build(nil, Record{}))
	assert.Equal(t, Record{}, m.Extract(42))
	assert.Equal(t, Record{}, m.Extract((*User)(nil)))
	assert.Equal(t, Record{}, m.Extract(nil))

	u := User{Name: "x"}
	assert.Equal(t, u, m.Populate(u, Record{"Name": "y"}), "non-pointer is returned unchanged")

	type empty struct{ hidden int }

	e := m.Build(reflect.TypeFor[empty](), Record{"hidden": 1})
	assert.Equal(t, &empty{}, e)
	assert.Equal(t, Record{}, m.Extract(empty{hidden: 1}))
}

func TestBuildArray(t *testing.T) {
	m, obs := newTestMapper()
	recs := []any{Record{"city": "a"}, 7, map[string]any{"city": "c"}}

	out := m.BuildArray(reflect.TypeFor[Address](), recs)

	require.Len(t, out, 3)
	assert.Equal(t, &Address{City: "a"}, out[0])
	assert.Equal(t, &Address{}, out[1])
	assert.Equal(t, &Address{City: "c"}, out[2])
	assert.Len(t, obs.skips, 1)

	assert.Empty(t, m.BuildArray(reflect.TypeFor[Address](), "nope"))
	assert.Empty(t, BuildArray[Address](m, nil))
}

func TestBuildArrayParallel(t *testing.T) {
	m, _ := newTestMapper(WithWorkers(3))

	recs := make([]Record, 50)
	for i := range recs {
		recs[i] = Record{"Name": string(rune('a' + i%26)), "Age": i}
	}

	want := m.BuildArray(reflect.TypeFor[User](), recs)

	got, err := m.BuildArrayParallel(context.Background(), reflect.TypeFor[User](), recs)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.BuildArrayParallel(ctx, reflect.TypeFor[User](), recs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractBatch(t *testing.T) {
	m, _ := newTestMapper()
	addrs := []Address{{City: "a"}, {City: "b"}}

	want := []Record{{"Street": "", "city": "a"}, {"Street": "", "city": "b"}}

	assert.Equal(t, want, m.ExtractBatch(addrs))
	assert.Equal(t, want, ExtractBatchOf(m, addrs))
	assert.Equal(t, []Record{}, m.ExtractBatch(42))
}

func TestObserverCountsObjects(t *testing.T) {
	m, obs := newTestMapper()

	u := Build[User](m, Record{"Home": Record{}, "Items": []any{Record{}}})
	m.Extract(u)

	assert.Equal(t, 3, obs.mapped[DirectionPopulate])
	assert.Equal(t, 3, obs.mapped[DirectionExtract])
}

func TestDefaultMapper(t *testing.T) {
	a := Build[Address](nil, Record{"city": "x"})
	assert.Equal(t, "x", a.City)
	assert.Equal(t, []Record{{"Street": "", "city": "x"}}, ExtractBatchOf(nil, []*Address{a}))
}
