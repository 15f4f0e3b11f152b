package services

import (
	"strings"

	"github.com/alphabatem/common/context"

	"github.com/grouppal/grouppal/model"
)

// FilterService owns the keyword filter rules: CRUD against the store and
// the matcher run over every plain text message.
type FilterService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const FILTER_SVC = "filter_svc"

func (svc FilterService) Id() string {
	return FILTER_SVC
}

func (svc *FilterService) Configure(ctx *context.Context) error {
	svc.sqlSvc = ctx.Service(POSTGRES_SVC).(*PostgresService)
	return svc.DefaultService.Configure(ctx)
}

func (svc *FilterService) Start() error {
	return nil
}

func (svc *FilterService) Add(trigger, reply string) error {
	return svc.sqlSvc.UpsertFilter(trigger, reply)
}

func (svc *FilterService) List() ([]model.Filter, error) {
	return svc.sqlSvc.ListFilters()
}

func (svc *FilterService) Remove(trigger string) error {
	return svc.sqlSvc.DeleteFilter(trigger)
}

// Match returns every filter whose trigger is a case-insensitive substring
// of text, in storage order. Each filter is checked independently; a match
// does not short-circuit the rest.
func (svc *FilterService) Match(text string, filters []model.Filter) []model.Filter {
	lowered := strings.ToLower(text)

	var matches []model.Filter
	for _, f := range filters {
		if f.Trigger == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(f.Trigger)) {
			matches = append(matches, f)
		}
	}
	return matches
}
