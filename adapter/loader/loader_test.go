package loader

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/base"
	"github.com/vinicius-lino-figueiredo/synthscope/adapter/record"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

var def = record.NewDefinition("Color", "name", "hex")

type adapterMock struct {
	base.Adapter
	mock.Mock
}

func newAdapterMock() *adapterMock {
	return &adapterMock{Adapter: base.New(def)}
}

// LoadByID implements [domain.Adapter].
func (a *adapterMock) LoadByID(ctx context.Context, id any, c domain.Context) (domain.Record, error) {
	call := a.Called(id)
	r, _ := call.Get(0).(domain.Record)
	return r, call.Error(1)
}

type batchAdapterMock struct{ *adapterMock }

// LoadByIDs implements [domain.BatchLoader].
func (a batchAdapterMock) LoadByIDs(ctx context.Context, ids []any, c domain.Context) ([]domain.Record, error) {
	call := a.Called(ids)
	r, _ := call.Get(0).([]domain.Record)
	return r, call.Error(1)
}

type extractAdapterMock struct{ *adapterMock }

// ExtractByIDs implements [domain.Extractor].
func (a extractAdapterMock) ExtractByIDs(ctx context.Context, ids []any, fields []string, c domain.Context) ([]domain.Row, error) {
	call := a.Called(ids, fields)
	r, _ := call.Get(0).([]domain.Row)
	return r, call.Error(1)
}

func color(id int, name string) domain.Record {
	return def.MustNew(map[string]any{"id": id, "name": name})
}

// cachingAdapter keeps loaded records in a plain map and tracks how many
// LoadByID calls are running.
type cachingAdapter struct {
	base.Adapter
	cache    map[any]domain.Record
	running  atomic.Int32
	overlaps atomic.Int32
}

// LoadByID implements [domain.Adapter].
func (a *cachingAdapter) LoadByID(_ context.Context, id any, _ domain.Context) (domain.Record, error) {
	if a.running.Add(1) > 1 {
		a.overlaps.Add(1)
	}
	defer a.running.Add(-1)

	if r, ok := a.cache[id]; ok {
		return r, nil
	}
	time.Sleep(time.Microsecond)
	r := color(id.(int), "red")
	a.cache[id] = r
	return r, nil
}

type LoaderTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *LoaderTestSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *LoaderTestSuite) TestLoadOneByOneKeepsOrderAndAbsences() {
	a := newAdapterMock()
	red, blue := color(0, "red"), color(4, "blue")
	a.On("LoadByID", 4).Return(blue, nil).Once()
	a.On("LoadByID", 9).Return(nil, nil).Once()
	a.On("LoadByID", 0).Return(red, nil).Once()

	l := New(a, WithConcurrency(2))
	res, err := l.LoadByIDs(s.ctx, []any{4, 9, 0}, domain.Context{})
	s.NoError(err)
	s.Equal([]domain.Record{blue, nil, red}, res)
	a.AssertExpectations(s.T())
}

func (s *LoaderTestSuite) TestLoadSequentialByDefault() {
	a := &cachingAdapter{Adapter: base.New(def), cache: make(map[any]domain.Record)}
	ids := make([]any, 200)
	for n := range ids {
		ids[n] = n
	}

	res, err := New(a).LoadByIDs(s.ctx, ids, domain.Context{})
	s.NoError(err)
	s.Len(res, len(ids))
	for n, r := range res {
		s.Equal(n, r.ID())
	}
	s.Zero(a.overlaps.Load())
	s.Len(a.cache, len(ids))
}

func (s *LoaderTestSuite) TestLoadSequentialStopsAtFirstError() {
	errLoad := errors.New("load error")
	a := newAdapterMock()
	a.On("LoadByID", 1).Return(nil, errLoad).Once()

	_, err := New(a).LoadByIDs(s.ctx, []any{1, 2, 3}, domain.Context{})
	s.ErrorIs(err, errLoad)
	a.AssertNumberOfCalls(s.T(), "LoadByID", 1)
}

func (s *LoaderTestSuite) TestLoadCanceled() {
	a := newAdapterMock()
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := New(a).LoadByIDs(ctx, []any{1}, domain.Context{})
	s.ErrorIs(err, context.Canceled)
	a.AssertNotCalled(s.T(), "LoadByID", mock.Anything)
}

func (s *LoaderTestSuite) TestLoadNoIDs() {
	res, err := New(newAdapterMock()).LoadByIDs(s.ctx, nil, domain.Context{})
	s.NoError(err)
	s.Empty(res)
}

func (s *LoaderTestSuite) TestLoadError() {
	errLoad := errors.New("load error")
	a := newAdapterMock()
	a.On("LoadByID", mock.Anything).Return(nil, errLoad)

	_, err := New(a).LoadByIDs(s.ctx, []any{1, 2}, domain.Context{})
	s.ErrorIs(err, errLoad)
}

func (s *LoaderTestSuite) TestBatchPath() {
	a := batchAdapterMock{newAdapterMock()}
	red := color(0, "red")
	a.On("LoadByIDs", []any{0, 1}).Return([]domain.Record{red, nil}, nil).Once()

	res, err := New(a).LoadByIDs(s.ctx, []any{0, 1}, domain.Context{})
	s.NoError(err)
	s.Equal([]domain.Record{red, nil}, res)
	a.AssertExpectations(s.T())
}

func (s *LoaderTestSuite) TestBatchLength() {
	a := batchAdapterMock{newAdapterMock()}
	a.On("LoadByIDs", []any{0, 1}).Return([]domain.Record{nil}, nil).Once()

	_, err := New(a).LoadByIDs(s.ctx, []any{0, 1}, domain.Context{})
	s.ErrorIs(err, domain.ErrBatchLength{Want: 2, Got: 1})
}

func (s *LoaderTestSuite) TestExtractFallsBackToRecords() {
	a := newAdapterMock()
	a.On("LoadByID", 0).Return(color(0, "red"), nil).Once()
	a.On("LoadByID", 1).Return(nil, nil).Once()

	rows, err := New(a).ExtractByIDs(s.ctx, []any{0, 1}, []string{"name", "shade"}, domain.Context{})
	s.NoError(err)
	s.Equal([]domain.Row{{"name": "red", "shade": nil}, nil}, rows)
}

func (s *LoaderTestSuite) TestExtractPath() {
	a := extractAdapterMock{newAdapterMock()}
	a.On("ExtractByIDs", []any{0, 1}, []string{"name"}).
		Return([]domain.Row{{"name": "red", "hex": "#f00"}, nil}, nil).Once()

	rows, err := New(a).ExtractByIDs(s.ctx, []any{0, 1}, []string{"name"}, domain.Context{})
	s.NoError(err)
	s.Equal([]domain.Row{{"name": "red", "hex": "#f00"}, nil}, rows)
	a.AssertNotCalled(s.T(), "LoadByID", mock.Anything)
}

func (s *LoaderTestSuite) TestExtractUnsupportedFallsBack() {
	a := extractAdapterMock{newAdapterMock()}
	a.On("ExtractByIDs", []any{0}, []string{"name"}).
		Return(nil, fmt.Errorf("computed field: %w", errors.ErrUnsupported)).Once()
	a.On("LoadByID", 0).Return(color(0, "red"), nil).Once()

	rows, err := New(a).ExtractByIDs(s.ctx, []any{0}, []string{"name"}, domain.Context{})
	s.NoError(err)
	s.Equal([]domain.Row{{"name": "red"}}, rows)
	a.AssertExpectations(s.T())
}

func (s *LoaderTestSuite) TestExtractMissingField() {
	a := extractAdapterMock{newAdapterMock()}
	a.On("ExtractByIDs", []any{0}, []string{"name"}).
		Return([]domain.Row{{"hex": "#f00"}}, nil).Once()

	_, err := New(a).ExtractByIDs(s.ctx, []any{0}, []string{"name"}, domain.Context{})
	s.ErrorIs(err, domain.ErrMissingField{ID: 0, Field: "name"})
}

func (s *LoaderTestSuite) TestExtractError() {
	errExtract := errors.New("extract error")
	a := extractAdapterMock{newAdapterMock()}
	a.On("ExtractByIDs", []any{0}, []string{"name"}).Return(nil, errExtract).Once()

	_, err := New(a).ExtractByIDs(s.ctx, []any{0}, []string{"name"}, domain.Context{})
	s.ErrorIs(err, errExtract)
}

func TestLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}
