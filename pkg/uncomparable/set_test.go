package uncomparable

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/comparer"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/hasher"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

type hasherMock struct{ mock.Mock }

// Hash implements domain.Hasher.
func (h *hasherMock) Hash(v any) (uint64, error) {
	call := h.Called(v)
	return uint64(call.Int(0)), call.Error(1)
}

type comparerMock struct{ mock.Mock }

// Comparable implements domain.Comparer.
func (c *comparerMock) Comparable(a any, b any) bool {
	return c.Called(a, b).Bool(0)
}

// Compare implements domain.Comparer.
func (c *comparerMock) Compare(a any, b any) (int, error) {
	call := c.Called(a, b)
	return call.Int(0), call.Error(1)
}

type SetTestSuite struct {
	suite.Suite
	s *Set
}

func (s *SetTestSuite) SetupTest() {
	var err error
	s.s, err = NewSet(hasher.NewHasher(), comparer.NewComparer())
	s.Require().NoError(err)
}

func (s *SetTestSuite) TestAddIgnoresDuplicates() {
	s.NoError(s.s.Add("a"))
	s.NoError(s.s.Add("a"))
	s.NoError(s.s.Add("b"))
	s.Equal(2, s.s.Len())
}

// Numbers of different widths are the same element.
func (s *SetTestSuite) TestNumbersAcrossWidths() {
	s.NoError(s.s.Add(1))
	s.NoError(s.s.Add(int64(1)))
	s.NoError(s.s.Add(float64(1)))
	s.Equal(1, s.s.Len())

	has, err := s.s.Has(uint8(1))
	s.NoError(err)
	s.True(has)

	has, err = s.s.Has(2)
	s.NoError(err)
	s.False(has)
}

func (s *SetTestSuite) TestUncomparableValues() {
	s.NoError(s.s.Add([]any{1, "a"}))
	s.NoError(s.s.Add(domain.Row{"x": 1}))
	s.NoError(s.s.Add(struct{ A int }{A: 1}))

	has, err := s.s.Has([]any{1, "a"})
	s.NoError(err)
	s.True(has)

	has, err = s.s.Has(map[string]any{"x": 1})
	s.NoError(err)
	s.True(has)

	has, err = s.s.Has(struct{ A int }{A: 1})
	s.NoError(err)
	s.True(has)

	has, err = s.s.Has(struct{ A int }{A: 2})
	s.NoError(err)
	s.False(has)
}

func (s *SetTestSuite) TestValues() {
	set, err := NewSet(hasher.NewHasher(), comparer.NewComparer(), "c", "a", "b", "a")
	s.NoError(err)
	values := slices.Collect(set.Values())
	slices.SortFunc(values, func(a, b any) int {
		c, _ := comparer.NewComparer().Compare(a, b)
		return c
	})
	s.Equal([]any{"a", "b", "c"}, values)
}

func (s *SetTestSuite) TestHashError() {
	h := new(hasherMock)
	hashErr := fmt.Errorf("hash error")
	h.On("Hash", "key").Return(0, hashErr).Twice()
	set, err := NewSet(h, comparer.NewComparer())
	s.NoError(err)

	s.ErrorIs(set.Add("key"), hashErr)
	_, err = set.Has("key")
	s.ErrorIs(err, hashErr)
	h.AssertExpectations(s.T())
}

func (s *SetTestSuite) TestCompareError() {
	c := new(comparerMock)
	compErr := fmt.Errorf("comparison error")
	c.On("Comparable", "a", "b").Return(true).Once()
	c.On("Compare", "a", "b").Return(0, compErr).Once()
	h := new(hasherMock)
	h.On("Hash", mock.Anything).Return(1, nil)

	set, err := NewSet(h, c, "a")
	s.NoError(err)

	_, err = set.Has("b")
	s.ErrorIs(err, compErr)
	c.AssertExpectations(s.T())
}

func TestSetTestSuite(t *testing.T) {
	suite.Run(t, new(SetTestSuite))
}
