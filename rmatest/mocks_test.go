package rmatest

import "github.com/stretchr/testify/mock"

// mockTestable stands in for a *testing.T, so that failed assertions made by
// this package's helpers can be observed instead of failing the test itself.
type mockTestable struct {
	mock.Mock
}

func (m *mockTestable) Logf(format string, args ...any)   { m.Called(format, args) }
func (m *mockTestable) Errorf(format string, args ...any) { m.Called(format, args) }
func (m *mockTestable) FailNow()                          { m.Called() }

// expectFormatted sets up an expectation for a printf-style method with any arguments
func (m *mockTestable) expectFormatted(method string) *mock.Call {
	return m.On(method, mock.AnythingOfType("string"), mock.Anything)
}

func (m *mockTestable) ExpectAnyErrorf() *mock.Call {
	return m.expectFormatted("Errorf")
}

func (m *mockTestable) ExpectFailNow() *mock.Call {
	return m.On("FailNow")
}
