package rmareflect

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"
)

type SafeSuite struct {
	suite.Suite
}

func (suite *SafeSuite) TestNotNillable() {
	suite.Equal(123, Safe(123, 456))
}

func (suite *SafeSuite) TestNilPointer() {
	var (
		candidate *int
		def       = 123
	)

	suite.Same(&def, Safe(candidate, &def))
}

func (suite *SafeSuite) TestNonNilPointer() {
	candidate, def := 123, 456
	suite.Same(&candidate, Safe(&candidate, &def))
}

func (suite *SafeSuite) TestNilInterface() {
	suite.Equal(http.DefaultTransport, Safe[http.RoundTripper](nil, http.DefaultTransport))
}

func (suite *SafeSuite) TestTypedNil() {
	var candidate http.HandlerFunc
	suite.IsType(http.DefaultServeMux, Safe[http.Handler](candidate, http.DefaultServeMux))
}

func TestSafe(t *testing.T) {
	suite.Run(t, new(SafeSuite))
}
