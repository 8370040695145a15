package app

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTagLimit = 10
	MinTagLimit     = 1
	MaxTagLimit     = 50
)

type TagService struct {
	users UserStore
	tags  TagStore
	cache TagCache
}

type TagQuery struct {
	Username string
	Limit    int
}

// NewTagService wires tag ranking. cache may be nil.
func NewTagService(users UserStore, tags TagStore, cache TagCache) *TagService {
	return &TagService{
		users: users,
		tags:  tags,
		cache: cache,
	}
}

// ParseTagQuery reads raw query parameters. A missing, non-numeric or
// non-finite limit becomes DefaultTagLimit; any other number is truncated and
// clamped to [MinTagLimit, MaxTagLimit].
func ParseTagQuery(username, rawLimit string) TagQuery {
	return TagQuery{
		Username: strings.TrimSpace(username),
		Limit:    parseTagLimit(rawLimit),
	}
}

func parseTagLimit(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultTagLimit
	}
	f = math.Trunc(f)
	if f < MinTagLimit {
		return MinTagLimit
	}
	if f > MaxTagLimit {
		return MaxTagLimit
	}
	return int(f)
}

// GetTags returns tag names ranked by article count, then by name.
func (s *TagService) GetTags(ctx context.Context, query TagQuery) ([]string, error) {
	limit := clampTagLimit(query.Limit)
	if query.Limit == 0 {
		limit = DefaultTagLimit
	}

	if query.Username != "" {
		user, err := s.users.GetByUsername(ctx, query.Username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
	}

	logCtx := logrus.WithFields(logrus.Fields{"username": query.Username, "limit": limit})
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, query.Username, limit)
		if err != nil {
			logCtx.WithError(err).Warn("tag cache read failed")
		} else if ok {
			return cached, nil
		}
	}

	names, err := s.tags.ListPopular(ctx, query.Username, limit)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query.Username, limit, names); err != nil {
			logCtx.WithError(err).Warn("tag cache write failed")
		}
	}
	return names, nil
}

func clampTagLimit(n int) int {
	if n < MinTagLimit {
		return MinTagLimit
	}
	if n > MaxTagLimit {
		return MaxTagLimit
	}
	return n
}
