package stackmap

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestID string

type session struct {
	User  string
	Roles []string
}

func (s session) Clone() session {
	return session{User: s.User, Roles: slices.Clone(s.Roles)}
}

func TestEmpty(t *testing.T) {
	var m Map = Empty{}

	assert.Equal(t, 0, m.Len())
	assert.True(t, m.IsEmpty())
	assert.False(t, Contains[int](m))
	assert.Equal(t, Empty{}, m.Inner())
	assert.Equal(t, NoType, m.TypeTagAt(0))
	assert.Empty(t, slices.Collect(m.TypeTags()))
	assert.Equal(t, "empty", m.String())

	_, ok := Get[string](m)
	assert.False(t, ok)
}

func TestInsertOverwritesSameType(t *testing.T) {
	m := Insert(Insert(Insert(Empty{}, 1), 2), 3)

	v, ok := Get[int](m)
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, InsertExisted, m.Outcome())

	old, ok := m.Old()
	require.True(t, ok)
	assert.Equal(t, 2, old)

	_, ok = Get[string](m)
	assert.False(t, ok)
}

func TestInsertFresh(t *testing.T) {
	a := Insert(Empty{}, 1)
	assert.Equal(t, InsertFresh, a.Outcome())
	_, ok := a.Old()
	assert.False(t, ok)

	b := Insert(a, requestID("r-1"))
	assert.Equal(t, InsertFresh, b.Outcome())
	assert.Equal(t, 2, b.Len())

	v, ok := b.Value()
	require.True(t, ok)
	assert.Equal(t, requestID("r-1"), v)

	n, ok := Get[int](b)
	require.True(t, ok)
	assert.Equal(t, 1, n)
}

func TestDistinctNamedTypes(t *testing.T) {
	m := Insert(Insert(Empty{}, "plain"), requestID("named"))

	s, ok := Get[string](m)
	require.True(t, ok)
	assert.Equal(t, "plain", s)

	id, ok := Get[requestID](m)
	require.True(t, ok)
	assert.Equal(t, requestID("named"), id)
	assert.Equal(t, 2, m.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	base := Insert(Insert(Insert(Empty{}, 1), 2), 3)
	m2 := base.Clone()
	m3 := base.Clone()

	notFound := Remove[string](base)
	assert.Equal(t, RemoveNotFound, notFound.Outcome())

	removed := Remove[int](m2)
	assert.Equal(t, RemoveFound, removed.Outcome())
	v, ok := removed.Value()
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 0, removed.Len())

	v, ok = Get[int](m3)
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 1, m3.Len())
}

func TestCloneUsesCloneMethod(t *testing.T) {
	m := Insert(Empty{}, session{User: "ana", Roles: []string{"admin"}})
	c := m.Clone()

	p, ok := GetMut[session](m)
	require.True(t, ok)
	p.Roles[0] = "guest"

	s, ok := Get[session](c)
	require.True(t, ok)
	assert.Equal(t, []string{"admin"}, s.Roles)
}

type node struct {
	ID int
}

func (n *node) Clone() *node {
	return &node{ID: n.ID}
}

func TestCloneSkipsEmptyPayloads(t *testing.T) {
	assert.NotPanics(t, func() { Insert(Empty{}, &node{ID: 1}).Clone() }, "fresh frame")
	assert.NotPanics(t, func() { Remove[*node](Empty{}).Clone() }, "not_found frame")
	assert.NotPanics(t, func() { Remove[*node](Insert(Empty{}, &node{ID: 1})).Clone() }, "none frame")

	var missing *node
	m := Insert(Empty{}, missing)
	c := m.Clone()
	got, ok := Get[*node](c)
	require.True(t, ok)
	assert.Nil(t, got)
}

func TestCloneCopiesPointerValues(t *testing.T) {
	n := &node{ID: 1}
	m := Insert(Insert(Empty{}, n), &node{ID: 2})
	require.Equal(t, InsertExisted, m.Outcome())
	c := m.Clone()

	n.ID = 99
	mustGet[*node](t, m).ID = 50

	old, ok := c.(*Inserted[*node]).Old()
	require.True(t, ok)
	assert.Equal(t, 1, old.ID)
	assert.Equal(t, 2, mustGet[*node](t, c).ID)
}

func TestCloneDeepCopiesReferenceValues(t *testing.T) {
	m := Insert(Insert(Empty{}, []int{1, 2}), map[string]int{"a": 1})
	c := m.Clone()

	s, ok := GetMut[[]int](m)
	require.True(t, ok)
	(*s)[0] = 99
	mp, ok := GetMut[map[string]int](m)
	require.True(t, ok)
	(*mp)["a"] = 99

	assert.Equal(t, []int{1, 2}, mustGet[[]int](t, c))
	assert.Equal(t, map[string]int{"a": 1}, mustGet[map[string]int](t, c))

	removed := Remove[[]int](m)
	rc := removed.Clone()
	v, _ := removed.Value()
	v[1] = 77
	rv, ok := rc.(*Removed[[]int]).Value()
	require.True(t, ok)
	assert.Equal(t, []int{99, 2}, rv)
}

type opaque struct {
	name  string
	Items []int
}

func TestCloneKeepsUnexportedFields(t *testing.T) {
	m := Insert(Empty{}, opaque{name: "kept", Items: []int{1}})
	c := m.Clone()

	assert.Equal(t, opaque{name: "kept", Items: []int{1}}, mustGet[opaque](t, c))
}

func mustGet[T any](t *testing.T, m Map) T {
	t.Helper()
	v, ok := Get[T](m)
	require.True(t, ok)
	return v
}

func TestTypeTagsFreshRun(t *testing.T) {
	m := Insert(Insert(Insert(Empty{}, 1), 2), 3)
	withUnit := Insert(m, struct{}{})
	withStr := Insert(withUnit, "hi")

	assert.Equal(t,
		[]TypeTag{TagOf[string](), TagOf[struct{}]()},
		slices.Collect(withStr.TypeTags()))
}

func TestTypeTagsStopAtOverwrite(t *testing.T) {
	m := Insert(Empty{}, 1.5)
	m2 := Insert(Insert(m, 1), 2)
	top := Insert(Insert(m2, struct{}{}), "hi")

	tags := slices.Collect(top.TypeTags())
	assert.Equal(t, []TypeTag{TagOf[string](), TagOf[struct{}]()}, tags)
	assert.NotContains(t, tags, TagOf[float64]())
	assert.True(t, Contains[float64](top))
}

func TestTypeTagsStopAtRemoveFrame(t *testing.T) {
	m := Insert(Insert(Empty{}, 1), "a")
	r := Remove[bool](m)
	top := Insert(r, true)

	assert.Equal(t, []TypeTag{TagOf[bool]()}, slices.Collect(top.TypeTags()))
	assert.Equal(t, NoType, top.TypeTagAt(1))
	assert.Equal(t, TagOf[string](), top.TypeTagAt(2))
	assert.Equal(t, NoType, top.TypeTagAt(-1))
	assert.Equal(t, NoType, top.TypeTagAt(10))
}

func TestTypeTagsRestartable(t *testing.T) {
	m := Insert(Insert(Empty{}, 1), "a")
	seq := m.TypeTags()

	assert.Equal(t, slices.Collect(seq), slices.Collect(seq))

	var first []TypeTag
	for tag := range seq {
		first = append(first, tag)
		break
	}
	assert.Equal(t, []TypeTag{TagOf[string]()}, first)
}

func TestRemoveNotFound(t *testing.T) {
	m := Insert(Insert(Empty{}, 1), "a")
	r := Remove[bool](m)

	assert.Equal(t, RemoveNotFound, r.Outcome())
	_, ok := r.Value()
	assert.False(t, ok)
	assert.Equal(t, 2, r.Len())

	n, _ := Get[int](r)
	s, _ := Get[string](r)
	assert.Equal(t, 1, n)
	assert.Equal(t, "a", s)
}

func TestRemoveSearchesWholeChain(t *testing.T) {
	m := Insert(Insert(Insert(Empty{}, 7), "a"), true)
	r := Remove[int](m)

	require.Equal(t, RemoveFound, r.Outcome())
	v, _ := r.Value()
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, r.Len())
	assert.False(t, Contains[int](r))
	assert.True(t, Contains[string](r))
	assert.True(t, Contains[bool](r))
	assert.Equal(t, "removed(int) > fresh(bool) > fresh(string) > none(int) > empty", r.String())
}

func TestRemoveThenInsert(t *testing.T) {
	r := Remove[int](Insert(Empty{}, 1))
	m := Insert(r, 2)

	assert.Equal(t, InsertFresh, m.Outcome())
	assert.Equal(t, 1, m.Len())
	v, _ := Get[int](m)
	assert.Equal(t, 2, v)

	again := Remove[int](m)
	assert.Equal(t, RemoveFound, again.Outcome())
	assert.Equal(t, 0, again.Len())
}

func TestRemoveTwice(t *testing.T) {
	first := Remove[int](Insert(Empty{}, 1))
	second := Remove[int](first)

	assert.Equal(t, RemoveFound, first.Outcome())
	assert.Equal(t, RemoveNotFound, second.Outcome())
	assert.Equal(t, 0, second.Len())
}

func TestOverwriteBehindRemoveFrame(t *testing.T) {
	m := Insert(Insert(Empty{}, 1), "a")
	r := Remove[string](m)
	o := Insert(r, 5)

	assert.Equal(t, InsertExisted, o.Outcome())
	old, _ := o.Old()
	assert.Equal(t, 1, old)
	assert.Equal(t, 1, o.Len())
}

func TestGetMut(t *testing.T) {
	m := Insert(Insert(Empty{}, 1), "a")

	p, ok := GetMut[int](m)
	require.True(t, ok)
	*p = 42

	v, _ := Get[int](m)
	assert.Equal(t, 42, v)
	assert.Equal(t, "fresh(string) > fresh(int) > empty", m.String())

	_, ok = GetMut[bool](m)
	assert.False(t, ok)
}

func TestInterfaceValues(t *testing.T) {
	var err error
	m := Insert(Empty{}, err)

	got, ok := Get[error](m)
	require.True(t, ok)
	assert.Nil(t, got)

	sentinel := errors.New("boom")
	o := Insert(m, sentinel)
	assert.Equal(t, InsertExisted, o.Outcome())
	got, _ = Get[error](o)
	assert.ErrorIs(t, got, sentinel)
}

func TestInner(t *testing.T) {
	a := Insert(Empty{}, 1)
	b := Insert(a, "a")

	assert.Same(t, a, b.Inner())
	assert.Equal(t, Empty{}, a.Inner())

	r := Remove[bool](b)
	assert.Same(t, b, r.Inner())
}

func TestClear(t *testing.T) {
	m := Insert(Insert(Empty{}, 1), "a")
	assert.Equal(t, Empty{}, m.Clear())
	assert.Equal(t, 0, m.Clear().Len())
}

func TestNilMapActsEmpty(t *testing.T) {
	m := Insert[int](nil, 3)
	assert.Equal(t, 1, m.Len())

	r := Remove[int](nil)
	assert.Equal(t, RemoveNotFound, r.Outcome())

	_, ok := Get[int](nil)
	assert.False(t, ok)
}

func TestFrames(t *testing.T) {
	m := Remove[bool](Insert(Insert(Insert(Empty{}, 1), 2), "a"))

	var kinds []FrameKind
	var depths []int
	for f := range Frames(m) {
		kinds = append(kinds, f.Kind)
		depths = append(depths, f.Depth)
	}
	assert.Equal(t, []FrameKind{FrameNotFound, FrameFresh, FrameExisted, FrameFresh, FrameEmpty}, kinds)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, depths)
}

func TestTypeTag(t *testing.T) {
	assert.True(t, NoType.IsNone())
	assert.False(t, TagOf[int]().IsNone())
	assert.Equal(t, TagOf[int](), TagOf[int]())
	assert.NotEqual(t, TagOf[int](), TagOf[int64]())
	assert.NotEqual(t, TagOf[string](), TagOf[requestID]())
	assert.Equal(t, "int", TagOf[int]().String())
	assert.Equal(t, "<none>", NoType.String())
	assert.Nil(t, NoType.Type())
}
