// Package stats derives the learning-dashboard metrics from a user's
// study history.
package stats

import (
	"math"
	"sort"

	"github.com/pavelanni/edusearch/internal/model"
)

// RecentLimit caps the recent-activity list on the dashboard.
const RecentLimit = 5

// DailyCount is one point of the study-activity series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// SubjectCount is one bar of the subject-distribution chart.
type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// Dashboard aggregates everything the dashboard page shows.
type Dashboard struct {
	TopicsStudied       int                  `json:"topics_studied"`
	SubjectsCovered     int                  `json:"subjects_covered"`
	DaysActive          int                  `json:"days_active"`
	AvgTopicsPerDay     float64              `json:"avg_topics_per_day"`
	DailyActivity       []DailyCount         `json:"daily_activity"`
	SubjectDistribution []SubjectCount       `json:"subject_distribution"`
	Recent              []model.HistoryEntry `json:"recent"`
	LastStudied         string               `json:"last_studied,omitempty"`
}

// Compute builds dashboard metrics from history entries in log order.
// Entries whose timestamp does not parse are left out of the date-based
// metrics but still count toward totals.
func Compute(entries []model.HistoryEntry) Dashboard {
	d := Dashboard{
		TopicsStudied:       len(entries),
		DailyActivity:       []DailyCount{},
		SubjectDistribution: []SubjectCount{},
		Recent:              []model.HistoryEntry{},
	}
	if len(entries) == 0 {
		return d
	}

	byDate := make(map[string]int)
	bySubject := make(map[string]int)
	for _, e := range entries {
		bySubject[e.Subject]++
		if _, err := e.Time(); err != nil {
			continue
		}
		byDate[e.Date()]++
	}

	d.SubjectsCovered = len(bySubject)
	d.DaysActive = len(byDate)
	avg := float64(len(entries)) / float64(max(d.DaysActive, 1))
	d.AvgTopicsPerDay = math.Round(avg*10) / 10

	for date, n := range byDate {
		d.DailyActivity = append(d.DailyActivity, DailyCount{Date: date, Count: n})
	}
	sort.Slice(d.DailyActivity, func(i, j int) bool {
		return d.DailyActivity[i].Date < d.DailyActivity[j].Date
	})

	for subject, n := range bySubject {
		d.SubjectDistribution = append(d.SubjectDistribution, SubjectCount{Subject: subject, Count: n})
	}
	sort.Slice(d.SubjectDistribution, func(i, j int) bool {
		a, b := d.SubjectDistribution[i], d.SubjectDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Subject < b.Subject
	})

	start := len(entries) - RecentLimit
	if start < 0 {
		start = 0
	}
	d.Recent = append(d.Recent, entries[start:]...)
	d.LastStudied = entries[len(entries)-1].Date()

	return d
}
