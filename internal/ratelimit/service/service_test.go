package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"storefront/internal/ratelimit/store/window"
	"storefront/pkg/requestcontext"
)

type LimiterSuite struct {
	suite.Suite
	ctx context.Context
}

func TestLimiterSuite(t *testing.T) {
	suite.Run(t, new(LimiterSuite))
}

func (s *LimiterSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *LimiterSuite) newLimiter(limit int) *Limiter {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limiter, err := New(window.NewInMemoryWindowStore(), limit, time.Minute, WithLogger(logger))
	s.Require().NoError(err)
	return limiter
}

func (s *LimiterSuite) TestValidation() {
	_, err := New(nil, 10, time.Minute)
	s.Error(err)

	_, err = New(window.NewInMemoryWindowStore(), 0, time.Minute)
	s.Error(err)

	_, err = New(window.NewInMemoryWindowStore(), 10, 0)
	s.Error(err)
}

// Quota of 2 per 60s window: three admissions inside one second yield
// accept, accept, reject with a ~59s retry hint.
func (s *LimiterSuite) TestQuotaExhaustion() {
	limiter := s.newLimiter(2)
	base := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)

	first, err := limiter.Admit(requestcontext.WithTime(s.ctx, base), "shop-1")
	s.Require().NoError(err)
	s.True(first.Allowed)

	second, err := limiter.Admit(requestcontext.WithTime(s.ctx, base.Add(500*time.Millisecond)), "shop-1")
	s.Require().NoError(err)
	s.True(second.Allowed)

	third, err := limiter.Admit(requestcontext.WithTime(s.ctx, base.Add(time.Second)), "shop-1")
	s.Require().NoError(err)
	s.False(third.Allowed)
	s.Equal(59, third.RetryAfter)
}

func (s *LimiterSuite) TestShopsDoNotInterfere() {
	limiter := s.newLimiter(1)

	a, err := limiter.Admit(s.ctx, "shop-a")
	s.Require().NoError(err)
	s.True(a.Allowed)

	rejected, err := limiter.Admit(s.ctx, "shop-a")
	s.Require().NoError(err)
	s.False(rejected.Allowed)

	b, err := limiter.Admit(s.ctx, "shop-b")
	s.Require().NoError(err)
	s.True(b.Allowed)
}

func (s *LimiterSuite) TestKeySanitization() {
	limiter := s.newLimiter(1)

	// A shop id containing the key delimiter must not alias another window.
	a, err := limiter.Admit(s.ctx, "shop:x")
	s.Require().NoError(err)
	s.True(a.Allowed)

	b, err := limiter.Admit(s.ctx, "shop_x")
	s.Require().NoError(err)
	s.False(b.Allowed, "sanitized forms collide by construction")
}

func (s *LimiterSuite) TestReset() {
	limiter := s.newLimiter(1)

	_, err := limiter.Admit(s.ctx, "shop-r")
	s.Require().NoError(err)
	s.Require().NoError(limiter.Reset(s.ctx, "shop-r"))

	again, err := limiter.Admit(s.ctx, "shop-r")
	s.Require().NoError(err)
	s.True(again.Allowed)
}
