package decoder

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vinicius-lino-figueiredo/synthscope/domain"
)

type color struct {
	ID   int    `synth:"id"`
	Name string `synth:"name"`
}

type DecoderTestSuite struct {
	suite.Suite
	dec domain.Decoder
}

func (s *DecoderTestSuite) SetupTest() {
	s.dec = NewDecoder()
}

func (s *DecoderTestSuite) TestNilTarget() {
	s.ErrorIs(s.dec.Decode(domain.Row{}, nil), domain.ErrTargetNil)
}

func (s *DecoderTestSuite) TestNonPointer() {
	s.ErrorIs(s.dec.Decode(domain.Row{}, color{}), domain.ErrNonPointer)
}

func (s *DecoderTestSuite) TestRowIntoStruct() {
	var c color
	s.NoError(s.dec.Decode(domain.Row{"id": 3, "name": "green"}, &c))
	s.Equal(color{ID: 3, Name: "green"}, c)
}

func (s *DecoderTestSuite) TestNestedRows() {
	var m map[string]any
	src := domain.Row{"a": []any{domain.Row{"b": 1}}}
	s.NoError(s.dec.Decode(src, &m))
	s.Equal(map[string]any{"a": []any{map[string]any{"b": 1}}}, m)
}

func (s *DecoderTestSuite) TestContextValues() {
	type deps struct {
		Palette []string `synth:"palette"`
	}
	ctx, err := domain.NewContext("colors", []string{"palette"}, map[string]any{
		"palette": []string{"red"},
	})
	s.Require().NoError(err)

	var d deps
	s.NoError(s.dec.Decode(ctx.Values(), &d))
	s.Equal([]string{"red"}, d.Palette)
}

func (s *DecoderTestSuite) TestDecodeError() {
	var c color
	err := s.dec.Decode(domain.Row{"id": "three"}, &c)
	s.ErrorAs(err, &domain.ErrDecode{})
}

func (s *DecoderTestSuite) TestWeaklyTyped() {
	var c color
	dec := NewDecoder(WithWeaklyTypedInput(true))
	s.NoError(dec.Decode(map[string]any{"id": "3"}, &c))
	s.Equal(3, c.ID)
}

func TestDecoderTestSuite(t *testing.T) {
	suite.Run(t, new(DecoderTestSuite))
}
