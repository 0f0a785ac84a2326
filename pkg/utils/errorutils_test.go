package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorUtilsSuite struct {
	suite.Suite
}

func TestErrorUtilsSuite(t *testing.T) {
	suite.Run(t, new(ErrorUtilsSuite))
}

func (s *ErrorUtilsSuite) TestContainsErrorSubstring() {
	base := errors.New("connection refused")
	wrapped := fmt.Errorf("dialing upstream: %w", base)

	s.True(ContainsErrorSubstring(wrapped, "connection refused"))
	s.True(ContainsErrorSubstring(wrapped, "dialing"))
	s.False(ContainsErrorSubstring(wrapped, "timeout"))
	s.False(ContainsErrorSubstring(nil, "anything"))
}

func (s *ErrorUtilsSuite) TestWrapIfNotNilPrefixesCaller() {
	err := WrapIfNotNil(errors.New("boom"))
	s.Require().Error(err)
	s.Contains(err.Error(), "boom")
	s.Contains(err.Error(), "TestWrapIfNotNilPrefixesCaller")
}

func (s *ErrorUtilsSuite) TestWrapIfNotNilPreservesWrappedErrors() {
	sentinel := errors.New("sentinel")
	err := WrapIfNotNil(fmt.Errorf("outer: %w", sentinel))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel))
}

func (s *ErrorUtilsSuite) TestWrapIfNotNilNil() {
	s.NoError(WrapIfNotNil(nil))
}
