package domain

// WithCursorDecoder sets the decoder for converting cursor results.
func WithCursorDecoder(d Decoder) CursorOption {
	return func(co *CursorOptions) {
		co.Decoder = d
	}
}

// CursorOption configures cursor behavior through the functional options
// pattern.
type CursorOption func(*CursorOptions)

// CursorOptions contains parameters for customizing cursor behavior.
type CursorOptions struct {
	Decoder Decoder
}

// WithQueryFilter sets the filter a query applies to every item.
func WithQueryFilter(f Filter) QueryOption {
	return func(qo *QueryOptions) {
		qo.Filter = f
	}
}

// WithQuerySort sets the sort order for query results.
func WithQuerySort(s []Ordering) QueryOption {
	return func(qo *QueryOptions) {
		qo.Sort = s
	}
}

// WithQuerySkip sets the number of items the query should skip.
func WithQuerySkip(s int64) QueryOption {
	return func(qo *QueryOptions) {
		qo.Skip = s
	}
}

// WithQueryLimit sets the maximum number of items the query should return.
func WithQueryLimit(l int64) QueryOption {
	return func(qo *QueryOptions) {
		qo.Limit = l
	}
}

// QueryOption configures query behavior through the functional options
// pattern.
type QueryOption func(*QueryOptions)

// QueryOptions contains parameters for a single query run.
type QueryOptions struct {
	Filter Filter
	Sort   []Ordering
	Skip   int64
	Limit  int64
}
