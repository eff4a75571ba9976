package extract

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type JSONInspectorSuite struct {
	suite.Suite
	inspector Inspector
}

func (s *JSONInspectorSuite) SetupTest() {
	s.inspector = JSONInspector()
}

func TestJSONInspectorSuite(t *testing.T) {
	suite.Run(t, new(JSONInspectorSuite))
}

func (s *JSONInspectorSuite) TestReturnsViewForValidJSON() {
	view, err := s.inspector.Inspect([]byte(`{"kind": "order"}`))

	s.Require().NoError(err)
	s.Assert().NotNil(view)
}

func (s *JSONInspectorSuite) TestReturnsErrorForInvalidJSON() {
	_, err := s.inspector.Inspect([]byte(`333a3`))

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

func (s *JSONInspectorSuite) TestReturnsErrorForEmptyInput() {
	_, err := s.inspector.Inspect([]byte{})

	s.Assert().ErrorIs(err, ErrInvalidJSON)
}

func (s *JSONInspectorSuite) TestRequestView() {
	view, err := NewRequest(`{"id": "o-1"}`).View()
	s.Require().NoError(err)

	id, ok := view.GetString("id")
	s.Assert().True(ok)
	s.Assert().Equal("o-1", id)
}

type JSONViewSuite struct {
	suite.Suite
	view View
}

func (s *JSONViewSuite) SetupTest() {
	raw := []byte(`{
		"kind": "order",
		"units": 3,
		"paid": true,
		"weight": 1.25,
		"customer": {
			"id": "c-9",
			"address": {"city": "Lisbon"}
		},
		"items": [{"sku": "a"}, {"sku": "b"}]
	}`)

	var err error
	s.view, err = JSONInspector().Inspect(raw)
	s.Require().NoError(err)
}

func TestJSONViewSuite(t *testing.T) {
	suite.Run(t, new(JSONViewSuite))
}

func (s *JSONViewSuite) TestHasField() {
	tests := map[string]struct {
		path   string
		exists bool
	}{
		"top level":     {"kind", true},
		"nested":        {"customer.id", true},
		"deep":          {"customer.address.city", true},
		"array element": {"items.1.sku", true},
		"missing":       {"missing", false},
		"missing deep":  {"customer.address.zip", false},
		"out of range":  {"items.5", false},
	}

	for name, tt := range tests {
		s.Run(name, func() {
			s.Assert().Equal(tt.exists, s.view.HasField(tt.path))
		})
	}
}

func (s *JSONViewSuite) TestGetString() {
	val, ok := s.view.GetString("customer.address.city")
	s.Require().True(ok)
	s.Assert().Equal("Lisbon", val)

	_, ok = s.view.GetString("units")
	s.Assert().False(ok)

	_, ok = s.view.GetString("paid")
	s.Assert().False(ok)

	_, ok = s.view.GetString("missing")
	s.Assert().False(ok)
}

func (s *JSONViewSuite) TestGetInt() {
	val, ok := s.view.GetInt("units")
	s.Require().True(ok)
	s.Assert().Equal(int64(3), val)

	val, ok = s.view.GetInt("items.#")
	s.Require().True(ok)
	s.Assert().Equal(int64(2), val)

	_, ok = s.view.GetInt("kind")
	s.Assert().False(ok)
}

func (s *JSONViewSuite) TestGetFloat() {
	val, ok := s.view.GetFloat("weight")
	s.Require().True(ok)
	s.Assert().InDelta(1.25, val, 1e-9)

	val, ok = s.view.GetFloat("units")
	s.Require().True(ok)
	s.Assert().InDelta(3.0, val, 1e-9)

	_, ok = s.view.GetFloat("paid")
	s.Assert().False(ok)
}

func (s *JSONViewSuite) TestGetBool() {
	val, ok := s.view.GetBool("paid")
	s.Require().True(ok)
	s.Assert().True(val)

	_, ok = s.view.GetBool("kind")
	s.Assert().False(ok)

	_, ok = s.view.GetBool("missing")
	s.Assert().False(ok)
}

func (s *JSONViewSuite) TestGetBytes() {
	val, ok := s.view.GetBytes("kind")
	s.Require().True(ok)
	s.Assert().Equal(`"order"`, string(val))

	val, ok = s.view.GetBytes("customer.address")
	s.Require().True(ok)
	s.Assert().Equal(`{"city": "Lisbon"}`, string(val))

	_, ok = s.view.GetBytes("missing")
	s.Assert().False(ok)
}
