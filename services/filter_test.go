package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grouppal/grouppal/model"
)

func TestFilterMatchCaseInsensitive(t *testing.T) {
	svc := &FilterService{}
	filters := []model.Filter{
		{Trigger: "hello", Reply: "hi there"},
	}

	matches := svc.Match("well HELLO world", filters)

	assert.Len(t, matches, 1)
	assert.Equal(t, "hi there", matches[0].Reply)
}

func TestFilterMatchEveryFilterIndependently(t *testing.T) {
	svc := &FilterService{}
	filters := []model.Filter{
		{Trigger: "foo", Reply: "reply-foo"},
		{Trigger: "bar", Reply: "reply-bar"},
		{Trigger: "baz", Reply: "reply-baz"},
	}

	matches := svc.Match("foo and BAR walk into a bar", filters)

	// no short-circuit on first match, storage order preserved
	assert.Len(t, matches, 2)
	assert.Equal(t, "foo", matches[0].Trigger)
	assert.Equal(t, "bar", matches[1].Trigger)
}

func TestFilterMatchSubstring(t *testing.T) {
	svc := &FilterService{}
	filters := []model.Filter{
		{Trigger: "ell", Reply: "partial"},
	}

	matches := svc.Match("hello", filters)

	assert.Len(t, matches, 1)
}

func TestFilterMatchNone(t *testing.T) {
	svc := &FilterService{}
	filters := []model.Filter{
		{Trigger: "spam", Reply: "no spam please"},
	}

	assert.Empty(t, svc.Match("a perfectly fine message", filters))
	assert.Empty(t, svc.Match("anything", nil))
}

func TestFilterMatchSkipsEmptyTrigger(t *testing.T) {
	svc := &FilterService{}
	filters := []model.Filter{
		{Trigger: "", Reply: "never"},
	}

	assert.Empty(t, svc.Match("any text at all", filters))
}
