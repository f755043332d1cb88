package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (s *ErrorTestSuite) TestNewGameError() {
	err := NewGameError(ErrIllegalAction, "split is not available")

	s.Equal(ErrIllegalAction, err.Code)
	s.Equal("split is not available", err.Message)
	s.Nil(err.Err)
}

func (s *ErrorTestSuite) TestWrapError() {
	underlying := errors.New("shoe is empty")

	err := WrapError(ErrEmptyShoe, "cannot deal", underlying)

	s.Equal(ErrEmptyShoe, err.Code)
	s.Equal("cannot deal", err.Message)
	s.Equal(underlying, err.Err)
	s.True(errors.Is(err, underlying), "wrapped error should be reachable through Unwrap")
}

func (s *ErrorTestSuite) TestErrorString() {
	testCases := []struct {
		name     string
		err      *GameError
		expected string
	}{
		{
			name:     "Simple error",
			err:      NewGameError(ErrInsufficientBankroll, "balance below minimum stake"),
			expected: "INSUFFICIENT_BANKROLL: balance below minimum stake",
		},
		{
			name:     "Wrapped error",
			err:      WrapError(ErrDatabaseError, "save round", errors.New("disk full")),
			expected: "DATABASE_ERROR: save round (disk full)",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
		})
	}
}

func (s *ErrorTestSuite) TestIsGameError() {
	gameErr := NewGameError(ErrIllegalAction, "no active hand")
	wrapped := fmt.Errorf("apply action: %w", gameErr)

	testCases := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{name: "Matching game error", err: gameErr, code: ErrIllegalAction, expected: true},
		{name: "Matching wrapped game error", err: wrapped, code: ErrIllegalAction, expected: true},
		{name: "Non-matching game error", err: gameErr, code: ErrEmptyShoe, expected: false},
		{name: "Regular error", err: errors.New("regular error"), code: ErrIllegalAction, expected: false},
		{name: "Nil error", err: nil, code: ErrIllegalAction, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, IsGameError(tc.err, tc.code))
		})
	}
}

func (s *ErrorTestSuite) TestAs() {
	gameErr := NewGameError(ErrInvalidState, "round already settled")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "Game error", err: gameErr, expected: true},
		{name: "Wrapped game error", err: fmt.Errorf("settle: %w", gameErr), expected: true},
		{name: "Regular error", err: errors.New("regular error"), expected: false},
		{name: "Nil error", err: nil, expected: false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var target *GameError
			result := As(tc.err, &target)
			s.Equal(tc.expected, result)
			if tc.expected {
				s.Equal(gameErr, target)
			}
		})
	}
}
