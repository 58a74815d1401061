package services

import (
	"fmt"
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/analytics"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/pkg/config"
)

const dateFormat = "2006-01-02"

// AnalyticsService turns the raw event stream into date-bucketed reports.
// Queries are read-only and safely concurrent.
type AnalyticsService struct {
	repo     analytics.EventRepository
	logger   *logging.ChanneledLogger
	tracker  *performance.Tracker
	location *time.Location
}

// NewAnalyticsService creates an analytics service. Bucketing follows the
// configured reporting timezone; an unknown zone falls back to UTC.
func NewAnalyticsService(repo analytics.EventRepository, logger *logging.ChanneledLogger, tracker *performance.Tracker) *AnalyticsService {
	location, err := time.LoadLocation(config.AnalyticsTimezone)
	if err != nil {
		logger.Analytics().Warn("Unknown reporting timezone, using UTC", "timezone", config.AnalyticsTimezone)
		location = time.UTC
	}
	return &AnalyticsService{
		repo:     repo,
		logger:   logger,
		tracker:  tracker,
		location: location,
	}
}

// GetAnalytics aggregates events for one popup (or all popups when popupID
// is empty) over an inclusive calendar-day range. Nil bounds default to the
// configured trailing window ending today; an inverted range is swapped.
// Zero events produce a zero-filled report, never an error.
func (s *AnalyticsService) GetAnalytics(popupID string, start, end *time.Time) (*analytics.Report, error) {
	marker := s.tracker.StartOperation("analytics_report")
	defer marker.Complete()

	startDay, endDay := s.normalizeRange(start, end, time.Now())

	// Query bound is exclusive of the day after the last bucket.
	events, err := s.repo.FindEventsInRange(popupID, startDay, endDay.AddDate(0, 0, 1))
	if err != nil {
		marker.SetError(err)
		return nil, fmt.Errorf("failed to load events for report: %w", err)
	}

	report := s.aggregate(events, startDay, endDay)
	marker.AddMetadata("events", len(events))
	marker.SetSuccess(true)
	return report, nil
}

// ClearAnalytics removes every recorded event. Backs the explicit admin
// purge action.
func (s *AnalyticsService) ClearAnalytics() (int64, error) {
	cleared, err := s.repo.DeleteAllEvents()
	if err != nil {
		return 0, err
	}
	s.logger.Analytics().Info("Analytics cleared", "eventsRemoved", cleared)
	return cleared, nil
}

// normalizeRange resolves the requested bounds to midnight-aligned bucket
// days in the reporting timezone.
func (s *AnalyticsService) normalizeRange(start, end *time.Time, now time.Time) (time.Time, time.Time) {
	endDay := dayOf(now, s.location)
	if end != nil {
		endDay = dayOf(*end, s.location)
	}
	startDay := endDay.AddDate(0, 0, -(config.DefaultReportRangeDay - 1))
	if start != nil {
		startDay = dayOf(*start, s.location)
	}
	if startDay.After(endDay) {
		startDay, endDay = endDay, startDay
	}
	return startDay, endDay
}

func (s *AnalyticsService) aggregate(events []*analytics.Event, startDay, endDay time.Time) *analytics.Report {
	type bucket struct {
		impressions int
		conversions int
	}

	perPopup := make(map[string]map[string]*bucket)
	for _, event := range events {
		date := event.CreatedAt.In(s.location).Format(dateFormat)
		days, ok := perPopup[event.PopupID]
		if !ok {
			days = make(map[string]*bucket)
			perPopup[event.PopupID] = days
		}
		b, ok := days[date]
		if !ok {
			b = &bucket{}
			days[date] = b
		}
		switch event.EventType {
		case analytics.EventImpression:
			b.impressions++
		case analytics.EventConversion:
			b.conversions++
		}
	}

	report := &analytics.Report{
		StartDate: startDay.Format(dateFormat),
		EndDate:   endDay.Format(dateFormat),
		Popups:    make(map[string]*analytics.PopupReport, len(perPopup)),
	}

	// Dense series: every day in the range appears exactly once, zero-filled
	// when nothing was recorded.
	overall := make(map[string]*bucket)
	for id, days := range perPopup {
		popupReport := &analytics.PopupReport{PopupID: id}
		for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
			date := day.Format(dateFormat)
			b := days[date]
			if b == nil {
				b = &bucket{}
			}
			popupReport.Series = append(popupReport.Series, analytics.DailyCount{
				Date:        date,
				Impressions: b.impressions,
				Conversions: b.conversions,
				Rate:        conversionRate(b.impressions, b.conversions),
			})
			popupReport.Impressions += b.impressions
			popupReport.Conversions += b.conversions

			total, ok := overall[date]
			if !ok {
				total = &bucket{}
				overall[date] = total
			}
			total.impressions += b.impressions
			total.conversions += b.conversions
		}
		popupReport.Rate = conversionRate(popupReport.Impressions, popupReport.Conversions)
		report.Popups[id] = popupReport
	}

	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateFormat)
		b := overall[date]
		if b == nil {
			b = &bucket{}
		}
		report.Series = append(report.Series, analytics.DailyCount{
			Date:        date,
			Impressions: b.impressions,
			Conversions: b.conversions,
			Rate:        conversionRate(b.impressions, b.conversions),
		})
		report.Impressions += b.impressions
		report.Conversions += b.conversions
	}
	report.Rate = conversionRate(report.Impressions, report.Conversions)
	return report
}

// conversionRate never divides by zero: no impressions means a zero rate.
func conversionRate(impressions, conversions int) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(conversions) / float64(impressions) * 100
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
